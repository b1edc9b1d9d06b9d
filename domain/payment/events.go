package payment

import (
	"time"

	"posimarket/domain/shared"
)

const EventPaymentApproved = "payment.approved"

// ApprovedEvent charge accepted by the gateway
type ApprovedEvent struct {
	PaymentID     string       `json:"payment_id"`
	OrderID       string       `json:"order_id"`
	Amount        shared.Money `json:"amount"`
	Method        Method       `json:"method"`
	TransactionID string       `json:"transaction_id"`
	Recipients    []string     `json:"recipients"`
	Title         string       `json:"title"`
	Message       string       `json:"message"`
	Kind          string       `json:"kind"`
	Link          string       `json:"link"`
	At            time.Time    `json:"occurred_on"`
}

func (e *ApprovedEvent) EventName() string      { return EventPaymentApproved }
func (e *ApprovedEvent) OccurredOn() time.Time  { return e.At }
func (e *ApprovedEvent) GetAggregateID() string { return e.PaymentID }
