package order

import "context"

// Repository order persistence
// Save inserts new orders with their items and history, and updates existing ones
// under the optimistic version check, inserting only the pending history rows.
type Repository interface {
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when missing; items and history are loaded
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindChildren sub-orders of a parent, in sub-order number order
	FindChildren(ctx context.Context, parentID string) ([]*Order, error)

	// FindByBuyer parent orders of a buyer, newest first
	FindByBuyer(ctx context.Context, buyerID string) ([]*Order, error)

	// FindBySeller sub-orders addressed to a seller, newest first
	FindBySeller(ctx context.Context, sellerID string) ([]*Order, error)
}
