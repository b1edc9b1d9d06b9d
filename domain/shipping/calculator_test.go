package shipping

import (
	"context"
	"errors"
	"testing"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"
)

const (
	paulista  = "01310100" // hub, metro
	pinheiros = "04538-133"
	rio       = "20040002"
	portoAleg = "90010000"
)

func usedBook() Item {
	return Item{Quantity: 1, Condition: catalog.ConditionUsed}
}

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultRateTable(), HubPostalCode)
}

func optionPrices(options []Option) map[Method]string {
	out := make(map[Method]string, len(options))
	for _, o := range options {
		out[o.MethodCode] = o.Price.String()
	}
	return out
}

func TestCalculateMetroSecondHand(t *testing.T) {
	c := newTestCalculator()

	options, err := c.Calculate(paulista, pinheiros, []Item{usedBook()})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	wantOrder := []Method{MethodStandard, MethodExpress, MethodRegionalConsolidated}
	for i, m := range wantOrder {
		if options[i].MethodCode != m {
			t.Errorf("options[%d] = %s, want %s (fixed carrier order)", i, options[i].MethodCode, m)
		}
	}

	prices := optionPrices(options)
	if prices[MethodStandard] != "14.25" {
		t.Errorf("standard = %s, want 14.25", prices[MethodStandard])
	}
	if prices[MethodExpress] != "25.90" {
		t.Errorf("express = %s, want 25.90", prices[MethodExpress])
	}
	if prices[MethodRegionalConsolidated] != "15.94" {
		t.Errorf("regional = %s, want 15.94", prices[MethodRegionalConsolidated])
	}

	regional := options[2]
	if !regional.IncludesHygiene || !regional.IncludesPickup || regional.LeadTimeDays != 2 {
		t.Errorf("regional flags = %+v", regional)
	}
	if options[0].LeadTimeDays != 3 || options[1].LeadTimeDays != 1 {
		t.Errorf("lead times = %d/%d, want 3/1", options[0].LeadTimeDays, options[1].LeadTimeDays)
	}
}

func TestRegionalEligibilityGate(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name   string
		origin PostalCode
		dest   string
		items  []Item
		want   bool
	}{
		{"metro and second-hand", paulista, pinheiros, []Item{usedBook(), {Quantity: 2, Condition: catalog.ConditionLikeNew}}, true},
		{"origin outside metro", rio, pinheiros, []Item{usedBook()}, false},
		{"destination outside metro", paulista, rio, []Item{usedBook()}, false},
		{"one new item", paulista, pinheiros, []Item{usedBook(), {Quantity: 1, Condition: catalog.ConditionNew}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := c.Calculate(tt.origin, tt.dest, tt.items)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			_, got := Find(options, MethodRegionalConsolidated)
			if got != tt.want {
				t.Errorf("regional present = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceDrivesLeadTime(t *testing.T) {
	c := newTestCalculator()

	options, err := c.Calculate(paulista, portoAleg, []Item{{Quantity: 1}})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	// gap 88,699,900 / 25,000 caps at 3,000
	if d := c.Distance(paulista, PostalCode(portoAleg)); d != 3000 {
		t.Errorf("distance = %v, want capped 3000", d)
	}
	std, _ := Find(options, MethodStandard)
	exp, _ := Find(options, MethodExpress)
	if std.LeadTimeDays != 9 {
		t.Errorf("standard days = %d, want 9", std.LeadTimeDays)
	}
	if exp.LeadTimeDays != 4 {
		t.Errorf("express days = %d, want 4", exp.LeadTimeDays)
	}
}

func TestWeightClampAndVolumeSurcharge(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name         string
		items        []Item
		wantStandard string
		wantExpress  string
	}{
		{
			name:         "light item clamped up to 0.3kg",
			items:        []Item{{Quantity: 1, WeightKg: 0.1}},
			wantStandard: "13.35",
			wantExpress:  "24.34",
		},
		{
			name:         "heavy lot clamped to 30kg plus 150L surcharge",
			items:        []Item{{Quantity: 100}},
			wantStandard: "169.50",
			wantExpress:  "278.50",
		},
		{
			name: "bulky item over 20L",
			items: []Item{{
				Quantity:   1,
				WeightKg:   2,
				Dimensions: catalog.Dimensions{LengthCm: 40, WidthCm: 30, HeightCm: 20},
			}},
			wantStandard: "24.60",
			wantExpress:  "41.20",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := c.Calculate(paulista, rio, tt.items)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			prices := optionPrices(options)
			if prices[MethodStandard] != tt.wantStandard {
				t.Errorf("standard = %s, want %s", prices[MethodStandard], tt.wantStandard)
			}
			if prices[MethodExpress] != tt.wantExpress {
				t.Errorf("express = %s, want %s", prices[MethodExpress], tt.wantExpress)
			}
		})
	}
}

func TestCalculateValidation(t *testing.T) {
	c := newTestCalculator()

	for _, bad := range []string{"", "1234", "0131O100", "01310-1000", "013101000"} {
		if _, err := c.Calculate(paulista, bad, []Item{usedBook()}); !errors.Is(err, ErrInvalidPostalCode) {
			t.Errorf("destination %q: err = %v, want ErrInvalidPostalCode", bad, err)
		}
	}
	if _, err := c.Calculate(paulista, pinheiros, nil); !errors.Is(err, ErrEmptyItems) {
		t.Errorf("empty items: err = %v, want ErrEmptyItems", err)
	}
}

func TestResolveOrigin(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name     string
		kind     catalog.SellerKind
		address  catalog.Address
		wantCode PostalCode
		wantApx  bool
	}{
		{"platform ships from hub", catalog.SellerPlatform, catalog.Address{PostalCode: rio}, HubPostalCode, false},
		{"individual with address", catalog.SellerIndividual, catalog.Address{PostalCode: "20040-002"}, rio, false},
		{"individual without address", catalog.SellerIndividual, catalog.Address{}, HubPostalCode, true},
		{"institutional with garbage address", catalog.SellerInstitutional, catalog.Address{PostalCode: "n/a"}, HubPostalCode, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ResolveOrigin(tt.kind, tt.address)
			if got.PostalCode != tt.wantCode || got.Approximate != tt.wantApx {
				t.Errorf("ResolveOrigin() = %+v, want %s approximate=%v", got, tt.wantCode, tt.wantApx)
			}
		})
	}
}

func TestSortByPrice(t *testing.T) {
	options := []Option{
		{MethodCode: MethodExpress, Price: shared.MustParseMoney("25.90")},
		{MethodCode: MethodRegionalConsolidated, Price: shared.MustParseMoney("14.25")},
		{MethodCode: MethodStandard, Price: shared.MustParseMoney("14.25")},
	}
	SortByPrice(options)
	want := []Method{MethodStandard, MethodRegionalConsolidated, MethodExpress}
	for i, m := range want {
		if options[i].MethodCode != m {
			t.Errorf("options[%d] = %s, want %s", i, options[i].MethodCode, m)
		}
	}
}

type stubProvider struct {
	options []Option
	err     error
	calls   int
}

func (p *stubProvider) Rates(ctx context.Context, req RateRequest) ([]Option, error) {
	p.calls++
	return p.options, p.err
}

func TestQuoterFallsBackToSimulatedQuote(t *testing.T) {
	provider := &stubProvider{err: errors.New("dial tcp: i/o timeout")}
	q := NewQuoter(newTestCalculator(), provider)

	var fallbackErr error
	q.OnFallback(func(err error) { fallbackErr = err })

	quote, err := q.QuoteGroup(context.Background(), catalog.SellerIndividual, catalog.Address{PostalCode: paulista}, pinheiros, []Item{usedBook()})
	if err != nil {
		t.Fatalf("QuoteGroup() error = %v", err)
	}
	if !quote.Simulated {
		t.Error("quote should be flagged simulated after provider failure")
	}
	if fallbackErr == nil {
		t.Error("fallback hook should receive the provider error")
	}
	if optionPrices(quote.Options)[MethodStandard] != "14.25" {
		t.Errorf("fallback standard price = %s", optionPrices(quote.Options)[MethodStandard])
	}
}

func TestQuoterUsesProviderPrices(t *testing.T) {
	provider := &stubProvider{options: []Option{
		{Name: "PAC", Company: "Correios", MethodCode: MethodStandard, Price: shared.MustParseMoney("17.3"), LeadTimeDays: 5},
		{Name: "SEDEX", Company: "Correios", MethodCode: MethodExpress, Price: shared.MustParseMoney("31.10"), LeadTimeDays: 2},
	}}
	q := NewQuoter(newTestCalculator(), provider)

	quote, err := q.QuoteGroup(context.Background(), catalog.SellerIndividual, catalog.Address{}, pinheiros, []Item{usedBook()})
	if err != nil {
		t.Fatalf("QuoteGroup() error = %v", err)
	}
	if quote.Simulated {
		t.Error("provider quote should not be simulated")
	}
	if !quote.Approximate {
		t.Error("missing seller address should flag the quote approximate")
	}
	prices := optionPrices(quote.Options)
	if prices[MethodStandard] != "17.30" || prices[MethodExpress] != "31.10" {
		t.Errorf("prices = %v", prices)
	}
	if prices[MethodRegionalConsolidated] != "15.94" {
		t.Errorf("regional should be priced locally, got %s", prices[MethodRegionalConsolidated])
	}
}

func TestQuoterRejectsIncompleteProviderAnswer(t *testing.T) {
	provider := &stubProvider{options: []Option{
		{MethodCode: MethodStandard, Price: shared.MustParseMoney("17.30"), LeadTimeDays: 5},
	}}
	q := NewQuoter(newTestCalculator(), provider)

	quote, err := q.QuoteGroup(context.Background(), catalog.SellerIndividual, catalog.Address{PostalCode: rio}, rio, []Item{usedBook()})
	if err != nil {
		t.Fatalf("QuoteGroup() error = %v", err)
	}
	if !quote.Simulated {
		t.Error("missing EXPRESS from provider should fall back to the simulated quote")
	}
}
