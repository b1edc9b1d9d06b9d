package payment

import (
	"errors"

	"posimarket/domain/shared"
)

var (
	// ErrDuplicatePayment the order already has an approved payment
	ErrDuplicatePayment = errors.New("order already paid")

	// ErrAmountMismatch submitted amount differs from the order total
	ErrAmountMismatch = errors.New("payment amount does not match order total")

	// ErrInvalidMethod unknown payment method
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrNotPayable order is not a parent order awaiting payment
	ErrNotPayable = errors.New("order is not awaiting payment")

	// ErrConcurrentModification another submission saved first; callers retry
	ErrConcurrentModification = errors.New("payment was modified by another transaction, please retry")
)

func NewDuplicatePaymentError(orderID string) error {
	return shared.NewDomainError(ErrDuplicatePayment, "payment", "order "+orderID+" has already been paid").
		WithDetail("order_id", orderID)
}

func NewAmountMismatchError(expected, got shared.Money) error {
	return shared.NewDomainError(ErrAmountMismatch, "payment", "amount must equal the order total of "+expected.String()).
		WithField("amount").
		WithDetail("expected", expected.String()).
		WithDetail("amount", got.String())
}

func NewInvalidMethodError(method string) error {
	return shared.NewDomainError(ErrInvalidMethod, "payment", "payment method must be PIX, CREDIT_CARD or BOLETO").
		WithField("method").
		WithDetail("method", method)
}

func NewNotPayableError(orderID, status string) error {
	return shared.NewDomainError(ErrNotPayable, "payment", "order "+orderID+" cannot be paid while "+status).
		WithDetail("status", status)
}

func NewConcurrentModificationError(orderID string) error {
	return shared.NewDomainError(ErrConcurrentModification, "payment", "payment for order "+orderID+" was modified by another transaction, please retry")
}
