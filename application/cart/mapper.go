package cart

import (
	"posimarket/domain/cart"
	"posimarket/domain/catalog"
)

func toLineResponse(l *cart.Line, p *catalog.Product, expired bool, available int) LineResponse {
	return LineResponse{
		ID:           l.ID(),
		ProductID:    l.ProductID(),
		ProductTitle: p.Title(),
		SellerID:     p.SellerID(),
		UnitPrice:    p.Price(),
		Quantity:     l.Quantity(),
		LineTotal:    p.Price().Times(l.Quantity()).Round(),
		ReservedAt:   l.ReservedAt(),
		ExpiresAt:    l.ExpiresAt(),
		Expired:      expired,
		Available:    available,
	}
}
