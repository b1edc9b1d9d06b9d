package po

import (
	"time"

	"posimarket/domain/cart"
)

// CartLinePO reservation row, unique per (cart, product)
type CartLinePO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	CartID     string    `gorm:"size:64;not null;uniqueIndex:uk_cart_product,priority:1"`
	ProductID  string    `gorm:"size:64;not null;uniqueIndex:uk_cart_product,priority:2;index:idx_product_expires,priority:1"`
	Quantity   int       `gorm:"not null"`
	ReservedAt time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null;index;index:idx_product_expires,priority:2"`
}

func (CartLinePO) TableName() string {
	return "cart_lines"
}

func FromCartLineDomain(l *cart.Line) *CartLinePO {
	return &CartLinePO{
		ID:         l.ID(),
		CartID:     l.CartID(),
		ProductID:  l.ProductID(),
		Quantity:   l.Quantity(),
		ReservedAt: l.ReservedAt(),
		ExpiresAt:  l.ExpiresAt(),
	}
}

func (po *CartLinePO) ToDomain() *cart.Line {
	return cart.RebuildLine(cart.LineDTO{
		ID:         po.ID,
		CartID:     po.CartID,
		ProductID:  po.ProductID,
		Quantity:   po.Quantity,
		ReservedAt: po.ReservedAt,
		ExpiresAt:  po.ExpiresAt,
	})
}
