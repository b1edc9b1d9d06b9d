package shipping

import (
	"context"
	"errors"

	"posimarket/domain/catalog"
)

// RateRequest what an external carrier integration is asked to price
type RateRequest struct {
	Origin      PostalCode
	Destination PostalCode
	Shipment    Shipment
}

// RateProvider external carrier quote source for STANDARD and EXPRESS
type RateProvider interface {
	Rates(ctx context.Context, req RateRequest) ([]Option, error)
}

// Quote options for one seller group
type Quote struct {
	Options []Option `json:"options"`
	// Approximate origin was the fallback hub
	Approximate bool `json:"approximate"`
	// Simulated prices came from the local calculator rather than the carrier
	Simulated bool `json:"simulated"`
}

// Quoter asks the provider first and degrades to the local calculator on any failure.
// The regional consolidated service is always priced locally.
type Quoter struct {
	calculator *Calculator
	provider   RateProvider
	onFallback func(err error)
}

// NewQuoter provider may be nil, in which case every quote is simulated
func NewQuoter(calculator *Calculator, provider RateProvider) *Quoter {
	return &Quoter{calculator: calculator, provider: provider}
}

// OnFallback registers a hook invoked with the provider error before degrading
func (q *Quoter) OnFallback(fn func(err error)) {
	q.onFallback = fn
}

// Calculator local engine
func (q *Quoter) Calculator() *Calculator { return q.calculator }

// QuoteGroup prices one seller group shipping to destination
func (q *Quoter) QuoteGroup(ctx context.Context, sellerKind catalog.SellerKind, sellerAddress catalog.Address, destination string, items []Item) (Quote, error) {
	origin := q.calculator.ResolveOrigin(sellerKind, sellerAddress)

	local, err := q.calculator.Calculate(origin.PostalCode, destination, items)
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{Options: local, Approximate: origin.Approximate, Simulated: true}
	if q.provider == nil {
		return quote, nil
	}

	dest, _ := ParsePostalCode(destination)
	remote, err := q.provider.Rates(ctx, RateRequest{
		Origin:      origin.PostalCode,
		Destination: dest,
		Shipment:    q.calculator.Aggregate(items),
	})
	if err == nil {
		remote, err = mergeRemote(remote, local)
	}
	if err != nil {
		if q.onFallback != nil {
			q.onFallback(err)
		}
		return quote, nil
	}

	quote.Options = remote
	quote.Simulated = false
	return quote, nil
}

// mergeRemote keeps carrier prices for STANDARD/EXPRESS and the local regional option
func mergeRemote(remote, local []Option) ([]Option, error) {
	merged := make([]Option, 0, len(local))
	for _, method := range []Method{MethodStandard, MethodExpress} {
		opt, ok := Find(remote, method)
		if !ok {
			return nil, errors.Join(ErrProviderUnavailable, errors.New("provider omitted "+string(method)))
		}
		if opt.Price.IsNegative() || opt.LeadTimeDays < 0 {
			return nil, errors.Join(ErrProviderUnavailable, errors.New("provider returned an invalid "+string(method)+" quote"))
		}
		opt.MethodCode = method
		opt.Price = opt.Price.Round()
		merged = append(merged, opt)
	}
	if regional, ok := Find(local, MethodRegionalConsolidated); ok {
		merged = append(merged, regional)
	}
	return merged, nil
}
