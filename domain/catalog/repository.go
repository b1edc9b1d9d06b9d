package catalog

import "context"

// ProductRepository product directory
// Methods use the transaction carried by ctx when there is one.
type ProductRepository interface {
	// FindByID returns ErrProductNotFound when missing
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByIDForUpdate reads the product and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)

	// DecrementStock subtracts quantity only if enough stock remains.
	// Returns ErrInsufficientStock and changes nothing otherwise.
	DecrementStock(ctx context.Context, id string, quantity int) error

	// IncrementStock restores quantity (cancellation compensation)
	IncrementStock(ctx context.Context, id string, quantity int) error

	// Save creates or replaces a product listing
	Save(ctx context.Context, product *Product) error
}

// UserRepository account directory
type UserRepository interface {
	// FindByID returns ErrUserNotFound when missing
	FindByID(ctx context.Context, id string) (*User, error)

	Save(ctx context.Context, user *User) error
}
