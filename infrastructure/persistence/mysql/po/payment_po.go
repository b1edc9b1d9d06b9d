package po

import (
	"time"

	"posimarket/domain/payment"
	"posimarket/domain/shared"

	"github.com/shopspring/decimal"
)

// PaymentPO one row per order
type PaymentPO struct {
	ID            string          `gorm:"primaryKey;size:64"`
	OrderID       string          `gorm:"size:64;uniqueIndex;not null"`
	BuyerID       string          `gorm:"size:64;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method        string          `gorm:"size:20;not null"`
	Status        string          `gorm:"size:20;not null"`
	TransactionID string          `gorm:"size:64"`
	Reason        string          `gorm:"size:255"`
	Attempts      int             `gorm:"not null;default:1"`
	PaidAt        *time.Time
	Version       int `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PaymentPO) TableName() string {
	return "payments"
}

func FromPaymentDomain(p *payment.Payment) *PaymentPO {
	dto := p.ToDTO()
	return &PaymentPO{
		ID:            dto.ID,
		OrderID:       dto.OrderID,
		BuyerID:       dto.BuyerID,
		Amount:        dto.Amount.Round().Amount(),
		Method:        string(dto.Method),
		Status:        string(dto.Status),
		TransactionID: dto.TransactionID,
		Reason:        dto.Reason,
		Attempts:      dto.Attempts,
		PaidAt:        dto.PaidAt,
		Version:       dto.Version,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	}
}

func (po *PaymentPO) ToDomain() *payment.Payment {
	return payment.Rebuild(payment.DTO{
		ID:            po.ID,
		OrderID:       po.OrderID,
		BuyerID:       po.BuyerID,
		Amount:        shared.NewMoney(po.Amount),
		Method:        payment.Method(po.Method),
		Status:        payment.Status(po.Status),
		TransactionID: po.TransactionID,
		Reason:        po.Reason,
		Attempts:      po.Attempts,
		PaidAt:        po.PaidAt,
		Version:       po.Version,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	})
}
