package payment

import "context"

// Repository payment persistence, one record per order
type Repository interface {
	// FindByOrderID returns nil, nil when the order has no payment yet
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)

	// Save inserts or updates under the optimistic version check
	Save(ctx context.Context, payment *Payment) error
}
