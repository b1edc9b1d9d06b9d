package cart

import (
	"context"
	"time"
)

// Repository reservation storage
type Repository interface {
	// FindLine returns nil, nil when the cart has no line for the product
	FindLine(ctx context.Context, cartID, productID string) (*Line, error)

	// ListByCart returns every line of a cart, expired ones included
	ListByCart(ctx context.Context, cartID string) ([]*Line, error)

	// SumHeld totals quantities still held (expiresAt > now) for a product,
	// ignoring lines of excludeCartID when it is not empty
	SumHeld(ctx context.Context, productID string, now time.Time, excludeCartID string) (int, error)

	// Save upserts by (cartID, productID)
	Save(ctx context.Context, line *Line) error

	// Delete removes one line; deleting a missing line is not an error
	Delete(ctx context.Context, cartID, productID string) error

	// DeleteForProducts removes the cart's lines for the given products
	DeleteForProducts(ctx context.Context, cartID string, productIDs []string) error

	// DeleteExpired purges lines with expiresAt < now and reports how many went
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
