package payment

import (
	"time"

	"posimarket/domain/shared"
)

// SubmitRequest pay a parent order
type SubmitRequest struct {
	Method string       `json:"method" binding:"required,oneof=PIX CREDIT_CARD BOLETO"`
	Amount shared.Money `json:"amount"`
}

// PaymentResponse current state of the order's payment
type PaymentResponse struct {
	ID            string       `json:"id"`
	OrderID       string       `json:"order_id"`
	Amount        shared.Money `json:"amount"`
	Method        string       `json:"method"`
	Status        string       `json:"status"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Attempts      int          `json:"attempts"`
	PaidAt        *time.Time   `json:"paid_at,omitempty"`
	OrderStatus   string       `json:"order_status"`
}
