/*
Package order errors

Sentinels back errors.Is checks; constructors wrap them in shared.DomainError so
the stack of the failing call is captured and the details the caller needs to
show a remediation message travel with the error.
*/
package order

import (
	"errors"

	"posimarket/domain/shared"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrOrderNotFound missing order, or an actor with no relation to it
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition target status is not reachable from the current one
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrBuyerNotFound buyer account does not exist
	ErrBuyerNotFound = errors.New("buyer not found")

	// ErrSellerMismatch product does not belong to the seller group it was submitted under
	ErrSellerMismatch = errors.New("product seller does not match seller group")

	// ErrShippingOptionUnavailable chosen method is not offered for a seller group
	ErrShippingOptionUnavailable = errors.New("shipping option unavailable")

	// ErrEmptyOrder checkout without lines
	ErrEmptyOrder = errors.New("order must have at least one item")

	// ErrPaymentRequired only an approved payment moves an order out of PENDING_PAYMENT
	ErrPaymentRequired = errors.New("order is awaiting payment")

	// ErrCancelWithParent an unpaid sub-order is cancelled through its parent
	ErrCancelWithParent = errors.New("sub-order awaiting payment must be cancelled with its parent order")

	// ErrConcurrentModification optimistic lock lost; callers retry
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")
)

// ============================================================================
// Error Constructors
// ============================================================================

// NewOrderNotFoundError also answers actors that may not see the order
func NewOrderNotFoundError(orderID string) error {
	return shared.NewDomainError(ErrOrderNotFound, "order", "order not found: "+orderID)
}

func NewInvalidTransitionError(orderID string, from, to Status) error {
	return shared.NewDomainError(ErrInvalidTransition, "order", "cannot move order from "+string(from)+" to "+string(to)).
		WithField("status").
		WithDetail("order_id", orderID).
		WithDetail("from", string(from)).
		WithDetail("to", string(to))
}

func NewBuyerNotFoundError(buyerID string) error {
	return shared.NewDomainError(ErrBuyerNotFound, "order", "buyer not found: "+buyerID).
		WithField("buyer_id")
}

func NewSellerMismatchError(productID, claimed, actual string) error {
	return shared.NewDomainError(ErrSellerMismatch, "order", "product "+productID+" is not sold by "+claimed).
		WithField("seller_id").
		WithDetail("product_id", productID).
		WithDetail("claimed_seller_id", claimed).
		WithDetail("seller_id", actual)
}

func NewShippingOptionUnavailableError(sellerID, method string) error {
	return shared.NewDomainError(ErrShippingOptionUnavailable, "order", "shipping method "+method+" is not available for this seller").
		WithField("shipping").
		WithDetail("seller_id", sellerID).
		WithDetail("method", method)
}

func NewEmptyOrderError() error {
	return shared.NewDomainError(ErrEmptyOrder, "order", "order must have at least one item").
		WithField("items")
}

func NewConcurrentModificationError(orderID string) error {
	return shared.NewDomainError(ErrConcurrentModification, "order", "order "+orderID+" was modified by another transaction, please retry")
}

func NewPaymentRequiredError(orderID string) error {
	return shared.NewDomainError(ErrPaymentRequired, "order", "order "+orderID+" is awaiting payment").
		WithField("status").
		WithDetail("order_id", orderID)
}

func NewCancelWithParentError(orderID, parentOrderID string) error {
	return shared.NewDomainError(ErrCancelWithParent, "order", "sub-order awaiting payment must be cancelled with its parent order").
		WithField("status").
		WithDetail("order_id", orderID).
		WithDetail("parent_order_id", parentOrderID)
}
