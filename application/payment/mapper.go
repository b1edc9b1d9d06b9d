package payment

import "posimarket/domain/payment"

func toPaymentResponse(p *payment.Payment, orderStatus string) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID(),
		OrderID:       p.OrderID(),
		Amount:        p.Amount(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		Reason:        p.Reason(),
		Attempts:      p.Attempts(),
		PaidAt:        p.PaidAt(),
		OrderStatus:   orderStatus,
	}
}
