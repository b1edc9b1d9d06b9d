package shipping

import (
	"errors"

	"posimarket/domain/shared"
)

var (
	// ErrInvalidPostalCode postal code is not 8 digits
	ErrInvalidPostalCode = errors.New("invalid postal code")

	// ErrEmptyItems nothing to ship
	ErrEmptyItems = errors.New("no items to ship")

	// ErrProviderUnavailable external rate provider failed or timed out
	ErrProviderUnavailable = errors.New("shipping rate provider unavailable")
)

func NewInvalidPostalCodeError(raw string) error {
	return shared.NewDomainError(ErrInvalidPostalCode, "shipping", "postal code must have 8 digits (e.g. 01310-100)").
		WithField("postal_code").
		WithDetail("postal_code", raw)
}

func NewEmptyItemsError() error {
	return shared.NewDomainError(ErrEmptyItems, "shipping", "at least one item is required to quote shipping").
		WithField("items")
}
