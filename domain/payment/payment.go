// Package payment order payments
//
// An order has at most one payment record. Resubmitting after a rejection or
// while the charge is still pending updates that record; once approved, further
// submissions are refused.
package payment

import (
	"fmt"
	"time"

	"posimarket/domain/shared"
)

// Status payment state
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Method payment instrument
type Method string

const (
	MethodPix        Method = "PIX"
	MethodCreditCard Method = "CREDIT_CARD"
	MethodBoleto     Method = "BOLETO"
)

func (m Method) Valid() bool {
	switch m {
	case MethodPix, MethodCreditCard, MethodBoleto:
		return true
	}
	return false
}

// ParseMethod validates a client supplied method
func ParseMethod(raw string) (Method, error) {
	m := Method(raw)
	if !m.Valid() {
		return "", NewInvalidMethodError(raw)
	}
	return m, nil
}

// Payment aggregate root
type Payment struct {
	id            string
	orderID       string
	buyerID       string
	amount        shared.Money
	method        Method
	status        Status
	transactionID string
	reason        string
	attempts      int
	paidAt        *time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	isNew         bool

	shared.EventRecorder
}

// NewPayment first submission for an order
func NewPayment(id, orderID, buyerID string, amount shared.Money, method Method, now time.Time) *Payment {
	return &Payment{
		id:        id,
		orderID:   orderID,
		buyerID:   buyerID,
		amount:    amount,
		method:    method,
		status:    StatusPending,
		attempts:  1,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
}

// Resubmit reuses the record for another attempt
func (p *Payment) Resubmit(amount shared.Money, method Method, now time.Time) error {
	if p.status == StatusApproved {
		return NewDuplicatePaymentError(p.orderID)
	}
	p.amount = amount
	p.method = method
	p.status = StatusPending
	p.reason = ""
	p.attempts++
	p.updatedAt = now
	return nil
}

// Apply records the gateway answer; approval emits payment.approved
func (p *Payment) Apply(auth Authorization, orderNumber string, now time.Time) {
	p.transactionID = auth.TransactionID
	p.updatedAt = now
	switch auth.Status {
	case StatusApproved:
		p.status = StatusApproved
		t := now
		p.paidAt = &t
		p.Record(&ApprovedEvent{
			PaymentID:     p.id,
			OrderID:       p.orderID,
			Amount:        p.amount,
			Method:        p.method,
			TransactionID: p.transactionID,
			Recipients:    []string{p.buyerID},
			Title:         "Payment approved",
			Message:       fmt.Sprintf("Payment for order %s was approved", orderNumber),
			Kind:          "PAYMENT",
			Link:          "/orders/" + p.orderID,
			At:            now,
		})
	case StatusRejected:
		p.status = StatusRejected
		p.reason = auth.Reason
	default:
		p.status = StatusPending
	}
}

// ============================================================================
// Reconstruction
// ============================================================================

type DTO struct {
	ID            string
	OrderID       string
	BuyerID       string
	Amount        shared.Money
	Method        Method
	Status        Status
	TransactionID string
	Reason        string
	Attempts      int
	PaidAt        *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Rebuild(dto DTO) *Payment {
	return &Payment{
		id:            dto.ID,
		orderID:       dto.OrderID,
		buyerID:       dto.BuyerID,
		amount:        dto.Amount,
		method:        dto.Method,
		status:        dto.Status,
		transactionID: dto.TransactionID,
		reason:        dto.Reason,
		attempts:      dto.Attempts,
		paidAt:        dto.PaidAt,
		version:       dto.Version,
		createdAt:     dto.CreatedAt,
		updatedAt:     dto.UpdatedAt,
	}
}

func (p *Payment) ToDTO() DTO {
	return DTO{
		ID:            p.id,
		OrderID:       p.orderID,
		BuyerID:       p.buyerID,
		Amount:        p.amount,
		Method:        p.method,
		Status:        p.status,
		TransactionID: p.transactionID,
		Reason:        p.reason,
		Attempts:      p.attempts,
		PaidAt:        p.paidAt,
		Version:       p.version,
		CreatedAt:     p.createdAt,
		UpdatedAt:     p.updatedAt,
	}
}

// IsNew not yet inserted
func (p *Payment) IsNew() bool { return p.isNew }

// MarkPersisted bumps the version of updated records after a save
func (p *Payment) MarkPersisted() {
	if !p.isNew {
		p.version++
	}
	p.isNew = false
}

func (p *Payment) ID() string            { return p.id }
func (p *Payment) OrderID() string       { return p.orderID }
func (p *Payment) BuyerID() string       { return p.buyerID }
func (p *Payment) Amount() shared.Money  { return p.amount }
func (p *Payment) Method() Method        { return p.method }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) TransactionID() string { return p.transactionID }
func (p *Payment) Reason() string        { return p.reason }
func (p *Payment) Attempts() int         { return p.attempts }
func (p *Payment) PaidAt() *time.Time    { return p.paidAt }
func (p *Payment) Version() int          { return p.version }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Payment) IsApproved() bool      { return p.status == StatusApproved }

var _ shared.AggregateRoot = (*Payment)(nil)
