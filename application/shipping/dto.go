package shipping

import "posimarket/domain/shipping"

// QuoteItem product and quantity to price
type QuoteItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// QuoteRequest quote a cart; with no items the buyer's held cart lines are used
type QuoteRequest struct {
	DestinationPostalCode string      `json:"destination_postal_code" binding:"required,postalcode"`
	Items                 []QuoteItem `json:"items" binding:"omitempty,dive"`
}

// GroupQuote options for one seller, in carrier order
type GroupQuote struct {
	SellerID    string            `json:"seller_id"`
	SellerName  string            `json:"seller_name"`
	Options     []shipping.Option `json:"options"`
	Approximate bool              `json:"approximate"`
	Simulated   bool              `json:"simulated"`
}

// FlatOption one option of a seller in the price-sorted list
type FlatOption struct {
	SellerID string `json:"seller_id"`
	shipping.Option
}

// QuoteResponse per-seller breakdown plus every option sorted by price
type QuoteResponse struct {
	Destination string       `json:"destination"`
	Groups      []GroupQuote `json:"groups"`
	Options     []FlatOption `json:"options"`
}
