package shipping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	shippingapp "posimarket/application/shipping"
	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/infrastructure/persistence/mocks"
)

func newService(t *testing.T) (*shippingapp.ApplicationService, *mocks.CartRepository, *shared.ManualClock) {
	t.Helper()
	store := mocks.NewStore()
	store.PutUser(catalog.UserDTO{ID: "platform", Name: "PosiMarket", Kind: catalog.SellerPlatform})
	store.PutUser(catalog.UserDTO{ID: "ana", Name: "Ana", Kind: catalog.SellerIndividual, Address: catalog.Address{PostalCode: "04538-133"}})
	store.PutUser(catalog.UserDTO{ID: "nowhere", Name: "No Address", Kind: catalog.SellerIndividual})
	store.PutProduct(catalog.ProductDTO{ID: "notebooks", SellerID: "platform", Price: shared.MustParseMoney("49.90"), Stock: 50, Condition: catalog.ConditionNew, WeightKg: 2})
	store.PutProduct(catalog.ProductDTO{ID: "backpack", SellerID: "ana", Price: shared.MustParseMoney("60.00"), Stock: 1, Condition: catalog.ConditionUsed})
	store.PutProduct(catalog.ProductDTO{ID: "ruler", SellerID: "nowhere", Price: shared.MustParseMoney("3.00"), Stock: 4, Condition: catalog.ConditionLikeNew})

	clock := shared.NewManualClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	lines := mocks.NewCartRepository(store)
	quoter := shipping.NewQuoter(shipping.NewCalculator(shipping.DefaultRateTable(), shipping.HubPostalCode), nil)
	svc := shippingapp.NewApplicationService(quoter, mocks.NewProductRepository(store), mocks.NewUserRepository(store), lines, clock)
	return svc, lines, clock
}

func TestQuoteCartGroupsBySeller(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.QuoteCart(context.Background(), "buyer", shippingapp.QuoteRequest{
		DestinationPostalCode: "05409000",
		Items: []shippingapp.QuoteItem{
			{ProductID: "notebooks", Quantity: 2},
			{ProductID: "backpack", Quantity: 1},
			{ProductID: "ruler", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("QuoteCart() error = %v", err)
	}
	if resp.Destination != "05409-000" {
		t.Errorf("destination = %s", resp.Destination)
	}
	if len(resp.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(resp.Groups))
	}

	bySeller := make(map[string]shippingapp.GroupQuote)
	for _, g := range resp.Groups {
		bySeller[g.SellerID] = g
		if !g.Simulated {
			t.Errorf("%s quote not flagged simulated without a provider", g.SellerID)
		}
		for i := 1; i < len(g.Options); i++ {
			if g.Options[i-1].MethodCode == g.Options[i].MethodCode {
				t.Errorf("%s duplicate option %s", g.SellerID, g.Options[i].MethodCode)
			}
		}
	}
	if g := bySeller["nowhere"]; !g.Approximate {
		t.Errorf("seller without address not flagged approximate")
	}
	if g := bySeller["platform"]; g.Approximate {
		t.Errorf("platform seller flagged approximate")
	}
	if _, ok := shipping.Find(bySeller["ana"].Options, shipping.MethodRegionalConsolidated); !ok {
		t.Errorf("second-hand metro group lacks regional option: %+v", bySeller["ana"].Options)
	}
	if _, ok := shipping.Find(bySeller["platform"].Options, shipping.MethodRegionalConsolidated); ok {
		t.Errorf("new items offered regional option")
	}

	total := 0
	for _, g := range resp.Groups {
		total += len(g.Options)
	}
	if len(resp.Options) != total {
		t.Fatalf("flat options = %d, want %d", len(resp.Options), total)
	}
	for i := 1; i < len(resp.Options); i++ {
		if resp.Options[i-1].Price.Cents() > resp.Options[i].Price.Cents() {
			t.Errorf("flat list not sorted by price at %d: %s > %s", i, resp.Options[i-1].Price, resp.Options[i].Price)
		}
	}
}

func TestQuoteCartFallsBackToHeldLines(t *testing.T) {
	svc, lines, clock := newService(t)
	ctx := context.Background()

	if _, err := svc.QuoteCart(ctx, "buyer", shippingapp.QuoteRequest{DestinationPostalCode: "05409-000"}); !errors.Is(err, shipping.ErrEmptyItems) {
		t.Fatalf("empty cart error = %v, want empty items", err)
	}

	line := cart.NewLine("l-1", "buyer", "backpack", 1, clock.Now(), 15*time.Minute)
	if err := lines.Save(ctx, line); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	resp, err := svc.QuoteCart(ctx, "buyer", shippingapp.QuoteRequest{DestinationPostalCode: "05409-000"})
	if err != nil {
		t.Fatalf("QuoteCart() error = %v", err)
	}
	if len(resp.Groups) != 1 || resp.Groups[0].SellerID != "ana" {
		t.Errorf("groups = %+v", resp.Groups)
	}

	clock.Advance(15 * time.Minute)
	if _, err := svc.QuoteCart(ctx, "buyer", shippingapp.QuoteRequest{DestinationPostalCode: "05409-000"}); !errors.Is(err, shipping.ErrEmptyItems) {
		t.Errorf("expired cart error = %v, want empty items", err)
	}
}

func TestQuoteCartValidation(t *testing.T) {
	svc, _, _ := newService(t)
	tests := []struct {
		name    string
		req     shippingapp.QuoteRequest
		wantErr error
	}{
		{"bad postal code", shippingapp.QuoteRequest{DestinationPostalCode: "5409", Items: []shippingapp.QuoteItem{{ProductID: "ruler", Quantity: 1}}}, shipping.ErrInvalidPostalCode},
		{"unknown product", shippingapp.QuoteRequest{DestinationPostalCode: "05409000", Items: []shippingapp.QuoteItem{{ProductID: "globe", Quantity: 1}}}, catalog.ErrProductNotFound},
		{"zero quantity", shippingapp.QuoteRequest{DestinationPostalCode: "05409000", Items: []shippingapp.QuoteItem{{ProductID: "ruler", Quantity: 0}}}, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.QuoteCart(context.Background(), "buyer", tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("QuoteCart() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
