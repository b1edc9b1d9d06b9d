package order

import (
	"posimarket/domain/order"
)

// ToOrderResponse maps an order and, for parents, its sub-orders
func ToOrderResponse(o *order.Order, children []*order.Order) OrderResponse {
	addr := o.DeliveryAddress()
	resp := OrderResponse{
		ID:             o.ID(),
		Number:         o.Number(),
		BuyerID:        o.BuyerID(),
		SellerID:       o.SellerID(),
		ParentOrderID:  o.ParentOrderID(),
		Status:         o.Status().String(),
		Subtotal:       o.Subtotal(),
		ShippingCost:   o.ShippingCost(),
		PlatformFee:    o.PlatformFee(),
		CleaningFee:    o.CleaningFee(),
		Total:          o.Total(),
		ShippingMethod: o.ShippingMethod(),
		PaymentMethod:  o.PaymentMethod(),
		DeliveryAddress: AddressResponse{
			Street:     addr.Street,
			Number:     addr.Number,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
		},
		CancelledAt:  o.CancelledAt(),
		CancelReason: o.CancelReason(),
		DeliveredAt:  o.DeliveredAt(),
		Reviewable:   o.IsReviewable(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}

	resp.NextStatuses = make([]string, 0, 2)
	for _, s := range o.Status().NextStatuses() {
		resp.NextStatuses = append(resp.NextStatuses, s.String())
	}
	for _, it := range o.Items() {
		resp.Items = append(resp.Items, ItemResponse{
			ID:           it.ID(),
			ProductID:    it.ProductID(),
			ProductTitle: it.ProductTitle(),
			Quantity:     it.Quantity(),
			UnitPrice:    it.UnitPrice(),
			Total:        it.Total(),
		})
	}
	for _, h := range o.History() {
		resp.History = append(resp.History, HistoryResponse{
			Status:    h.Status().String(),
			Note:      h.Note(),
			ActorID:   h.ActorID(),
			CreatedAt: h.CreatedAt(),
		})
	}
	for _, c := range children {
		resp.SubOrders = append(resp.SubOrders, ToOrderResponse(c, nil))
	}
	return resp
}

func toSellerOrderResponse(o *order.Order) SellerOrderResponse {
	return SellerOrderResponse{
		OrderResponse:       ToOrderResponse(o, nil),
		ReportingCommission: o.ReportingCommission(),
	}
}
