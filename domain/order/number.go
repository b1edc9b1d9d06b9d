package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberPrefix human readable order number prefix
const NumberPrefix = "PM"

// NewNumber PM-<unix millis>-<6 random chars>
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("%s-%d-%s", NumberPrefix, now.UnixMilli(), suffix)
}

// SubOrderNumber <parent>-S<n>, n starting at 1
func SubOrderNumber(parentNumber string, n int) string {
	return fmt.Sprintf("%s-S%d", parentNumber, n)
}
