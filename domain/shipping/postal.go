package shipping

import (
	"strconv"
	"strings"
)

// PostalCode normalized 8-digit postal code
type PostalCode string

// ParsePostalCode accepts "01310100" or "01310-100"; anything else is rejected
func ParsePostalCode(raw string) (PostalCode, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 9 && s[5] == '-' {
		s = s[:5] + s[6:]
	}
	if len(s) != 8 {
		return "", NewInvalidPostalCodeError(raw)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", NewInvalidPostalCodeError(raw)
		}
	}
	return PostalCode(s), nil
}

// IsValidPostalCode reports whether raw parses
func IsValidPostalCode(raw string) bool {
	_, err := ParsePostalCode(raw)
	return err == nil
}

// Number numeric value used by the distance proxy
func (p PostalCode) Number() int64 {
	n, _ := strconv.ParseInt(string(p), 10, 64)
	return n
}

func (p PostalCode) String() string { return string(p) }

// Formatted renders the hyphenated form 01310-100
func (p PostalCode) Formatted() string {
	if len(p) != 8 {
		return string(p)
	}
	return string(p[:5]) + "-" + string(p[5:])
}

// InMetroArea reports whether the code lies in the regional consolidated service area
func (p PostalCode) InMetroArea() bool {
	n := p.Number()
	return n >= MetroRangeStart && n <= MetroRangeEnd
}
