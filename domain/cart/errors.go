package cart

import (
	"errors"

	"posimarket/domain/shared"
)

var (
	// ErrInvalidQuantity quantity must be at least one
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

func NewInvalidQuantityError(quantity int) error {
	return shared.NewDomainError(ErrInvalidQuantity, "cart_line", "quantity must be at least 1").
		WithField("quantity").
		WithDetail("quantity", quantity)
}
