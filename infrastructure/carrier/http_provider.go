// Package carrier external shipping rate provider over HTTP
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"posimarket/domain/shipping"
)

const maxResponseBytes = 1 << 20

type rateRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	VolumeL     float64 `json:"volume_l"`
}

type rateResponse struct {
	Options []shipping.Option `json:"options"`
}

// HTTPProvider POSTs the shipment to <baseURL>/rates and reads back options
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider timeout bounds the whole exchange
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Rates(ctx context.Context, req shipping.RateRequest) ([]shipping.Option, error) {
	body, err := json.Marshal(rateRequest{
		Origin:      req.Origin.String(),
		Destination: req.Destination.String(),
		WeightKg:    req.Shipment.WeightKg,
		VolumeL:     req.Shipment.VolumeL,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/rates", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("carrier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("carrier answered %d", resp.StatusCode)
	}

	var out rateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("carrier response: %w", err)
	}
	return out.Options, nil
}

var _ shipping.RateProvider = (*HTTPProvider)(nil)
