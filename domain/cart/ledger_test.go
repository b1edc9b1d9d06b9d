package cart_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/mocks"
)

var start = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type userSellers struct{ users catalog.UserRepository }

func (s userSellers) IsIndividualSeller(ctx context.Context, sellerID string) (bool, error) {
	u, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return false, err
	}
	return u.IsIndividual(), nil
}

type fixture struct {
	ledger *cart.Ledger
	lines  *mocks.CartRepository
	clock  *shared.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mocks.NewStore()
	store.PutUser(catalog.UserDTO{ID: "ana", Kind: catalog.SellerIndividual})
	store.PutUser(catalog.UserDTO{ID: "escola", Kind: catalog.SellerInstitutional})
	store.PutProduct(catalog.ProductDTO{ID: "backpack", SellerID: "ana", Price: shared.MustParseMoney("60.00"), Stock: 1})
	store.PutProduct(catalog.ProductDTO{ID: "uniform", SellerID: "escola", Price: shared.MustParseMoney("35.00"), Stock: 1})
	store.PutProduct(catalog.ProductDTO{ID: "pens", SellerID: "escola", Price: shared.MustParseMoney("4.50"), Stock: 5})

	seq := 0
	newID := func() string {
		seq++
		return fmt.Sprintf("line-%d", seq)
	}
	clock := shared.NewManualClock(start)
	lines := mocks.NewCartRepository(store)
	ledger := cart.NewLedger(lines, mocks.NewProductRepository(store), userSellers{mocks.NewUserRepository(store)}, clock, 15*time.Minute, newID)
	return &fixture{ledger: ledger, lines: lines, clock: clock}
}

func (f *fixture) reserve(t *testing.T, cartID, productID string, qty int) (*cart.Line, error) {
	t.Helper()
	line, err := f.ledger.Reserve(context.Background(), cartID, productID, qty)
	if err != nil {
		return nil, err
	}
	if err := f.lines.Save(context.Background(), line); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return line, nil
}

func availableDetail(t *testing.T, err error) int {
	t.Helper()
	var de *shared.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	n, ok := de.Details["available"].(int)
	if !ok {
		t.Fatalf("missing available detail in %v", de.Details)
	}
	return n
}

func TestReserveScarceItemFromIndividualSeller(t *testing.T) {
	f := newFixture(t)

	line, err := f.reserve(t, "buyer-1", "backpack", 3)
	if err != nil {
		t.Fatalf("first Reserve() error = %v", err)
	}
	if line.Quantity() != 1 {
		t.Errorf("quantity = %d, want clamped to 1", line.Quantity())
	}

	f.clock.Advance(5 * time.Minute)
	again, err := f.reserve(t, "buyer-1", "backpack", 1)
	if err != nil {
		t.Fatalf("adding the same scarce item again should renew, got %v", err)
	}
	if again.Quantity() != 1 {
		t.Errorf("quantity after renew = %d, want 1", again.Quantity())
	}
	if want := start.Add(20 * time.Minute); !again.ExpiresAt().Equal(want) {
		t.Errorf("expiresAt = %v, want %v", again.ExpiresAt(), want)
	}

	_, err = f.reserve(t, "buyer-2", "backpack", 1)
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("other buyer Reserve() error = %v, want insufficient stock", err)
	}
	if got := availableDetail(t, err); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}
}

func TestReserveSingleUnitFromInstitutionIsNotClamped(t *testing.T) {
	f := newFixture(t)

	_, err := f.reserve(t, "buyer-1", "uniform", 2)
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("Reserve() error = %v, want insufficient stock", err)
	}
	if got := availableDetail(t, err); got != 1 {
		t.Errorf("available = %d, want 1", got)
	}
}

func TestReserveHoldsExpireLazily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.reserve(t, "buyer-1", "backpack", 1); err != nil {
		t.Fatal(err)
	}

	f.clock.Advance(15*time.Minute - time.Second)
	if n, _ := f.ledger.AvailableStock(ctx, "backpack"); n != 0 {
		t.Errorf("available just before expiry = %d, want 0", n)
	}

	f.clock.Advance(time.Second)
	if n, _ := f.ledger.AvailableStock(ctx, "backpack"); n != 1 {
		t.Errorf("available at expiresAt = %d, want 1", n)
	}
	if _, err := f.reserve(t, "buyer-2", "backpack", 1); err != nil {
		t.Errorf("Reserve() after expiry error = %v", err)
	}
}

func TestReserveReplacesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.reserve(t, "buyer-1", "pens", 3); err != nil {
		t.Fatal(err)
	}
	// the cart's own hold does not count against its replacement
	line, err := f.reserve(t, "buyer-1", "pens", 5)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if line.Quantity() != 5 || line.ID() != "line-1" {
		t.Errorf("line = %s qty %d, want line-1 qty 5", line.ID(), line.Quantity())
	}

	_, err = f.reserve(t, "buyer-2", "pens", 1)
	if got := availableDetail(t, err); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}

	f.clock.Advance(time.Hour)
	stale, err := f.reserve(t, "buyer-1", "pens", 2)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Quantity() != 2 {
		t.Errorf("expired line renewed to %d, want 2 (not summed)", stale.Quantity())
	}
	if n, _ := f.ledger.AvailableStock(ctx, "pens"); n != 3 {
		t.Errorf("available = %d, want 3", n)
	}
	if n, _ := f.ledger.AvailableExcludingCart(ctx, catalog.RebuildProduct(catalog.ProductDTO{ID: "pens", Stock: 5}), "buyer-1"); n != 5 {
		t.Errorf("available excluding own cart = %d, want 5", n)
	}
}

func TestReserveValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		cartID    string
		productID string
		qty       int
		want      error
	}{
		{"zero quantity", "buyer-1", "pens", 0, cart.ErrInvalidQuantity},
		{"negative quantity", "buyer-1", "pens", -2, cart.ErrInvalidQuantity},
		{"missing cart", "", "pens", 1, shared.ErrInvalidInput},
		{"unknown product", "buyer-1", "nope", 1, catalog.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.Reserve(context.Background(), tt.cartID, tt.productID, tt.qty)
			if !errors.Is(err, tt.want) {
				t.Errorf("Reserve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLineExpiryBoundary(t *testing.T) {
	line := cart.NewLine("l1", "c1", "p1", 1, start, time.Minute)
	exp := start.Add(time.Minute)

	if line.IsExpired(exp) || !line.Holds(exp.Add(-time.Nanosecond)) {
		t.Error("line must be active before and not expired at expiresAt")
	}
	if line.Holds(exp) {
		t.Error("a line stops holding at expiresAt")
	}
	if !line.IsExpired(exp.Add(time.Nanosecond)) {
		t.Error("line must be expired after expiresAt")
	}
}
