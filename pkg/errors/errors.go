// Package errors application error codes.
//
// Domain packages return sentinels wrapped in shared.DomainError. FromDomainError
// turns them into an AppError with a machine readable code; mapping codes to HTTP
// status is left to the API layer.
package errors

import (
	"context"
	"errors"
	"fmt"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
)

// ErrorCode machine readable error code
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeTimeout        ErrorCode = "TIMEOUT"

	// Business codes
	CodeInvalidPostalCode         ErrorCode = "INVALID_POSTAL_CODE"
	CodeEmptyItems                ErrorCode = "EMPTY_ITEMS"
	CodeProductNotFound           ErrorCode = "PRODUCT_NOT_FOUND"
	CodeBuyerNotFound             ErrorCode = "BUYER_NOT_FOUND"
	CodeInsufficientStock         ErrorCode = "INSUFFICIENT_STOCK"
	CodeSellerMismatch            ErrorCode = "SELLER_MISMATCH"
	CodeShippingOptionUnavailable ErrorCode = "SHIPPING_OPTION_UNAVAILABLE"
	CodeInvalidTransition         ErrorCode = "INVALID_TRANSITION"
	CodeOrderNotFound             ErrorCode = "ORDER_NOT_FOUND"
	CodeDuplicatePayment          ErrorCode = "DUPLICATE_PAYMENT"
	CodePaymentAmountMismatch     ErrorCode = "PAYMENT_AMOUNT_MISMATCH"
	CodeNotPayable                ErrorCode = "ORDER_NOT_PAYABLE"
	CodePaymentRequired           ErrorCode = "PAYMENT_REQUIRED"
	CodeCancelWithParent          ErrorCode = "CANCEL_WITH_PARENT"
	CodeConcurrentModify          ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError error as the API reports it
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError      { return New(CodeBadRequest, message) }
func Validation(message string) *AppError      { return New(CodeValidation, message) }
func Unauthorized(message string) *AppError    { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError       { return New(CodeForbidden, message) }
func NotFound(message string) *AppError        { return New(CodeNotFound, message) }
func TooManyRequests(message string) *AppError { return New(CodeTooManyRequest, message) }
func Internal(message string) *AppError        { return New(CodeInternal, message) }

// Is reports whether err carries code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// sentinelCodes most specific sentinels first; the generic shared ones come last
var sentinelCodes = []struct {
	sentinel error
	code     ErrorCode
}{
	{shipping.ErrInvalidPostalCode, CodeInvalidPostalCode},
	{shipping.ErrEmptyItems, CodeEmptyItems},
	{catalog.ErrProductNotFound, CodeProductNotFound},
	{catalog.ErrInsufficientStock, CodeInsufficientStock},
	{catalog.ErrUserNotFound, CodeNotFound},
	{cart.ErrInvalidQuantity, CodeValidation},
	{order.ErrBuyerNotFound, CodeBuyerNotFound},
	{order.ErrSellerMismatch, CodeSellerMismatch},
	{order.ErrShippingOptionUnavailable, CodeShippingOptionUnavailable},
	{order.ErrInvalidTransition, CodeInvalidTransition},
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrPaymentRequired, CodePaymentRequired},
	{order.ErrCancelWithParent, CodeCancelWithParent},
	{order.ErrEmptyOrder, CodeValidation},
	{order.ErrConcurrentModification, CodeConcurrentModify},
	{payment.ErrDuplicatePayment, CodeDuplicatePayment},
	{payment.ErrAmountMismatch, CodePaymentAmountMismatch},
	{payment.ErrInvalidMethod, CodeValidation},
	{payment.ErrNotPayable, CodeNotPayable},
	{payment.ErrConcurrentModification, CodeConcurrentModify},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrConflict, CodeConflict},
	{shared.ErrUnauthorized, CodeUnauthorized},
	{shared.ErrForbidden, CodeForbidden},
	{context.DeadlineExceeded, CodeTimeout},
}

// FromDomainError maps any error returned by the application layer.
// Unknown errors become INTERNAL_ERROR with the original kept in Err for logging.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, sc := range sentinelCodes {
		if !errors.Is(err, sc.sentinel) {
			continue
		}
		out := &AppError{Code: sc.code, Message: err.Error(), Err: err}
		var de *shared.DomainError
		if errors.As(err, &de) {
			out.Message = de.Message
			out.Field = de.Field
			out.Details = de.Details
		}
		return out
	}

	return Wrap(err, CodeInternal, "internal server error, please try again")
}
