package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"postal code", shipping.NewInvalidPostalCodeError("123"), CodeInvalidPostalCode},
		{"empty items", shipping.NewEmptyItemsError(), CodeEmptyItems},
		{"product", catalog.NewProductNotFoundError("p"), CodeProductNotFound},
		{"stock", catalog.NewInsufficientStockError("p", 3, 1), CodeInsufficientStock},
		{"buyer", order.NewBuyerNotFoundError("b"), CodeBuyerNotFound},
		{"seller mismatch", order.NewSellerMismatchError("p", "a", "b"), CodeSellerMismatch},
		{"shipping", order.NewShippingOptionUnavailableError("s", "EXPRESS"), CodeShippingOptionUnavailable},
		{"transition", order.NewInvalidTransitionError("o", order.StatusDelivered, order.StatusCancelled), CodeInvalidTransition},
		{"order", order.NewOrderNotFoundError("o"), CodeOrderNotFound},
		{"duplicate", payment.NewDuplicatePaymentError("o"), CodeDuplicatePayment},
		{"amount", payment.NewAmountMismatchError(shared.MustParseMoney("10"), shared.MustParseMoney("9")), CodePaymentAmountMismatch},
		{"method", payment.NewInvalidMethodError("CASH"), CodeValidation},
		{"order version", order.NewConcurrentModificationError("o"), CodeConcurrentModify},
		{"payment version", payment.NewConcurrentModificationError("o"), CodeConcurrentModify},
		{"generic validation", shared.NewValidationError("x", "f", "bad"), CodeValidation},
		{"generic not found", shared.NewNotFoundError("payment", "o"), CodeNotFound},
		{"wrapped", fmt.Errorf("checkout: %w", order.NewEmptyOrderError()), CodeValidation},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), CodeTimeout},
		{"unknown", stderrors.New("dial tcp: connection refused"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomainError(tt.err)
			if got.Code != tt.want {
				t.Errorf("code = %s, want %s", got.Code, tt.want)
			}
			if !stderrors.Is(got, tt.err) && got.Err != tt.err {
				t.Errorf("original error not kept")
			}
		})
	}
}

func TestFromDomainErrorCarriesDetails(t *testing.T) {
	got := FromDomainError(catalog.NewInsufficientStockError("backpack", 2, 1))
	if got.Message != "only 1 left" || got.Field != "quantity" {
		t.Errorf("got message %q field %q", got.Message, got.Field)
	}
	if got.Details["available"] != 1 {
		t.Errorf("available = %v, want 1", got.Details["available"])
	}
}

func TestInternalMessageHidesCause(t *testing.T) {
	got := FromDomainError(stderrors.New("password=secret in dsn"))
	if got.Message != "internal server error, please try again" {
		t.Errorf("message = %q", got.Message)
	}
	if FromDomainError(nil) != nil {
		t.Error("nil error mapped to non-nil")
	}
	app := Validation("bad")
	if FromDomainError(fmt.Errorf("wrap: %w", app)) != app {
		t.Error("AppError not passed through")
	}
	if !Is(app, CodeValidation) || Is(stderrors.New("x"), CodeValidation) {
		t.Error("Is mismatch")
	}
}
