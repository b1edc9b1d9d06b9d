package cart

import (
	"context"
	"errors"
	"time"

	"posimarket/domain/catalog"
	"posimarket/domain/shared"
)

// DefaultReservationTTL hold duration when none is configured
const DefaultReservationTTL = 15 * time.Minute

// SellerClassifier answers whether a seller is an individual (non-institutional) account
// Kept as a narrow interface so the cart package does not depend on user persistence.
type SellerClassifier interface {
	IsIndividualSeller(ctx context.Context, sellerID string) (bool, error)
}

// IDGenerator produces line ids
type IDGenerator func() string

// Ledger reservation rules
// The ledger reads repositories but never persists; the application service saves
// the line it returns inside the same unit of work.
type Ledger struct {
	lines    Repository
	products catalog.ProductRepository
	sellers  SellerClassifier
	clock    shared.Clock
	ttl      time.Duration
	newID    IDGenerator
}

func NewLedger(
	lines Repository,
	products catalog.ProductRepository,
	sellers SellerClassifier,
	clock shared.Clock,
	ttl time.Duration,
	newID IDGenerator,
) *Ledger {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Ledger{
		lines:    lines,
		products: products,
		sellers:  sellers,
		clock:    clock,
		ttl:      ttl,
		newID:    newID,
	}
}

// TTL configured hold duration
func (l *Ledger) TTL() time.Duration { return l.ttl }

// Now current ledger time
func (l *Ledger) Now() time.Time { return l.clock.Now() }

// IsExpired now > expiresAt
func (l *Ledger) IsExpired(line *Line) bool {
	return line.IsExpired(l.clock.Now())
}

// AvailableStock physical stock minus every unexpired hold, never below zero
func (l *Ledger) AvailableStock(ctx context.Context, productID string) (int, error) {
	product, err := l.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return l.availableFor(ctx, product, "")
}

// AvailableExcludingCart stock a given cart may still take: its own holds are not counted
func (l *Ledger) AvailableExcludingCart(ctx context.Context, product *catalog.Product, cartID string) (int, error) {
	return l.availableFor(ctx, product, cartID)
}

func (l *Ledger) availableFor(ctx context.Context, product *catalog.Product, excludeCartID string) (int, error) {
	held, err := l.lines.SumHeld(ctx, product.ID(), l.clock.Now(), excludeCartID)
	if err != nil {
		return 0, err
	}
	available := product.Stock() - held
	if available < 0 {
		available = 0
	}
	return available, nil
}

// Reserve creates or replaces the (cart, product) hold.
//
// Must run inside a transaction: the product row is locked so two carts cannot
// both pass the availability check. The returned line is not yet saved.
//
// One-of-a-kind items from individual sellers are clamped to quantity 1, and
// adding them again to the same cart only renews the hold.
func (l *Ledger) Reserve(ctx context.Context, cartID, productID string, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, NewInvalidQuantityError(quantity)
	}
	if cartID == "" {
		return nil, shared.NewValidationError("cart_line", "cart_id", "cart id is required")
	}

	product, err := l.products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	scarce, err := l.isScarce(ctx, product)
	if err != nil {
		return nil, err
	}
	if scarce {
		quantity = 1
	}

	existing, err := l.lines.FindLine(ctx, cartID, productID)
	if err != nil {
		return nil, err
	}

	// the line being replaced never counts against itself
	available, err := l.availableFor(ctx, product, cartID)
	if err != nil {
		return nil, err
	}
	if quantity > available {
		return nil, catalog.NewInsufficientStockError(productID, quantity, available)
	}

	now := l.clock.Now()
	if existing != nil {
		existing.Renew(quantity, now, l.ttl)
		return existing, nil
	}
	return NewLine(l.newID(), cartID, productID, quantity, now, l.ttl), nil
}

func (l *Ledger) isScarce(ctx context.Context, product *catalog.Product) (bool, error) {
	if !product.IsOneOfAKind() {
		return false, nil
	}
	individual, err := l.sellers.IsIndividualSeller(ctx, product.SellerID())
	if err != nil {
		if errors.Is(err, catalog.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return individual, nil
}
