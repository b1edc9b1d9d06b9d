package cart

import (
	"time"

	"posimarket/domain/shared"
)

// ReserveRequest add a product to the cart or replace its quantity
type ReserveRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest new quantity for a line already in the cart
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// LineResponse one cart line with its hold
type LineResponse struct {
	ID           string       `json:"id"`
	ProductID    string       `json:"product_id"`
	ProductTitle string       `json:"product_title"`
	SellerID     string       `json:"seller_id"`
	UnitPrice    shared.Money `json:"unit_price"`
	Quantity     int          `json:"quantity"`
	LineTotal    shared.Money `json:"line_total"`
	ReservedAt   time.Time    `json:"reserved_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Expired      bool         `json:"expired"`
	Available    int          `json:"available"`
}

// CartResponse lines oldest first; the subtotal counts unexpired lines only
type CartResponse struct {
	BuyerID  string         `json:"buyer_id"`
	Lines    []LineResponse `json:"lines"`
	Subtotal shared.Money   `json:"subtotal"`
}

// AvailabilityResponse stock a new hold could take
type AvailabilityResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}
