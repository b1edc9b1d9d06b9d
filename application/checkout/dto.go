package checkout

import "posimarket/domain/shared"

// AddressRequest delivery address
type AddressRequest struct {
	Street     string `json:"street" binding:"required,max=200"`
	Number     string `json:"number" binding:"max=20"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,len=2"`
	PostalCode string `json:"postal_code" binding:"required,postalcode"`
}

// LineRequest one cart line; seller_id is checked against the product
type LineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	SellerID  string `json:"seller_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest checkout of a multi-seller cart
type PlaceOrderRequest struct {
	Items           []LineRequest  `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress AddressRequest `json:"delivery_address" binding:"required"`
	// Shipping chosen method code per seller id
	Shipping      map[string]string `json:"shipping" binding:"required,min=1"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=PIX CREDIT_CARD BOLETO"`
	CleaningFee   shared.Money      `json:"cleaning_fee"`
}
