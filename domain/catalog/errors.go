package catalog

import (
	"errors"
	"fmt"

	"posimarket/domain/shared"
)

var (
	// ErrProductNotFound product id does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound user id does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientStock requested quantity exceeds what can be sold
	ErrInsufficientStock = errors.New("insufficient stock")
)

func NewProductNotFoundError(productID string) error {
	return shared.NewDomainError(ErrProductNotFound, "product", "product not found: "+productID).
		WithDetail("product_id", productID)
}

func NewUserNotFoundError(userID string) error {
	return shared.NewDomainError(ErrUserNotFound, "user", "user not found: "+userID)
}

// NewInsufficientStockError carries the available quantity so callers can show "only N left"
func NewInsufficientStockError(productID string, requested, available int) error {
	if available < 0 {
		available = 0
	}
	msg := fmt.Sprintf("only %d left", available)
	if available == 0 {
		msg = "out of stock"
	}
	return shared.NewDomainError(ErrInsufficientStock, "product", msg).
		WithField("quantity").
		WithDetail("product_id", productID).
		WithDetail("requested", requested).
		WithDetail("available", available)
}
