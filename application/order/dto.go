package order

import (
	"time"

	"posimarket/domain/shared"
)

// TransitionRequest status change asked by an actor
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// AddressResponse delivery address
type AddressResponse struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// ItemResponse price snapshot of one product
type ItemResponse struct {
	ID           string       `json:"id"`
	ProductID    string       `json:"product_id"`
	ProductTitle string       `json:"product_title"`
	Quantity     int          `json:"quantity"`
	UnitPrice    shared.Money `json:"unit_price"`
	Total        shared.Money `json:"total"`
}

// HistoryResponse one status log row
type HistoryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse parent order or sub-order
type OrderResponse struct {
	ID              string            `json:"id"`
	Number          string            `json:"number"`
	BuyerID         string            `json:"buyer_id"`
	SellerID        string            `json:"seller_id,omitempty"`
	ParentOrderID   string            `json:"parent_order_id,omitempty"`
	Status          string            `json:"status"`
	NextStatuses    []string          `json:"next_statuses"`
	Subtotal        shared.Money      `json:"subtotal"`
	ShippingCost    shared.Money      `json:"shipping_cost"`
	PlatformFee     shared.Money      `json:"platform_fee"`
	CleaningFee     shared.Money      `json:"cleaning_fee"`
	Total           shared.Money      `json:"total"`
	ShippingMethod  string            `json:"shipping_method"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryAddress AddressResponse   `json:"delivery_address"`
	Items           []ItemResponse    `json:"items,omitempty"`
	History         []HistoryResponse `json:"history,omitempty"`
	SubOrders       []OrderResponse   `json:"sub_orders,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason    string            `json:"cancel_reason,omitempty"`
	DeliveredAt     *time.Time        `json:"delivered_at,omitempty"`
	Reviewable      bool              `json:"reviewable"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SellerOrderResponse sub-order as its seller sees it
type SellerOrderResponse struct {
	OrderResponse
	// ReportingCommission display figure for the seller's financial summary
	ReportingCommission shared.Money `json:"reporting_commission"`
}
