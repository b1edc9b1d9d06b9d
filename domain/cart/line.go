/*
Package cart Stock reservation ledger

A cart line is also a reservation: while it is active (expiresAt > now) its
quantity is withheld from every other cart. Expiry is evaluated lazily against
a clock; nothing has to run for a hold to lapse.
*/
package cart

import (
	"time"
)

// Line cart line carrying a time-limited stock hold
// Unique per (cartID, productID). The cart id is the owning buyer's id.
type Line struct {
	id         string
	cartID     string
	productID  string
	quantity   int
	reservedAt time.Time
	expiresAt  time.Time
}

// NewLine creates a reservation starting at now
func NewLine(id, cartID, productID string, quantity int, now time.Time, ttl time.Duration) *Line {
	return &Line{
		id:         id,
		cartID:     cartID,
		productID:  productID,
		quantity:   quantity,
		reservedAt: now,
		expiresAt:  now.Add(ttl),
	}
}

// LineDTO reconstruction data
type LineDTO struct {
	ID         string
	CartID     string
	ProductID  string
	Quantity   int
	ReservedAt time.Time
	ExpiresAt  time.Time
}

func RebuildLine(dto LineDTO) *Line {
	return &Line{
		id:         dto.ID,
		cartID:     dto.CartID,
		productID:  dto.ProductID,
		quantity:   dto.Quantity,
		reservedAt: dto.ReservedAt,
		expiresAt:  dto.ExpiresAt,
	}
}

func (l *Line) ToDTO() LineDTO {
	return LineDTO{
		ID:         l.id,
		CartID:     l.cartID,
		ProductID:  l.productID,
		Quantity:   l.quantity,
		ReservedAt: l.reservedAt,
		ExpiresAt:  l.expiresAt,
	}
}

// Renew replaces quantity and restarts the hold. An expired line is renewed the
// same way, so stale quantities are discarded rather than accumulated.
func (l *Line) Renew(quantity int, now time.Time, ttl time.Duration) {
	l.quantity = quantity
	l.reservedAt = now
	l.expiresAt = now.Add(ttl)
}

// IsExpired now > expiresAt
func (l *Line) IsExpired(now time.Time) bool {
	return now.After(l.expiresAt)
}

// Holds reports whether the line still withholds stock (expiresAt > now)
func (l *Line) Holds(now time.Time) bool {
	return l.expiresAt.After(now)
}

func (l *Line) ID() string            { return l.id }
func (l *Line) CartID() string        { return l.cartID }
func (l *Line) ProductID() string     { return l.productID }
func (l *Line) Quantity() int         { return l.quantity }
func (l *Line) ReservedAt() time.Time { return l.reservedAt }
func (l *Line) ExpiresAt() time.Time  { return l.expiresAt }
