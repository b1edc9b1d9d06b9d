package mocks

import (
	"context"

	"posimarket/domain/payment"
)

// PaymentRepository in-memory payments, one per order
type PaymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	defer r.store.lock(ctx)()
	dto, ok := r.store.payments[orderID]
	if !ok {
		return nil, nil
	}
	return payment.Rebuild(dto), nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	defer r.store.lock(ctx)()
	dto := p.ToDTO()
	existing, ok := r.store.payments[p.OrderID()]
	switch {
	case p.IsNew() && ok:
		return payment.NewConcurrentModificationError(p.OrderID())
	case !p.IsNew() && (!ok || existing.Version != p.Version()):
		return payment.NewConcurrentModificationError(p.OrderID())
	case !p.IsNew():
		dto.Version = p.Version() + 1
	}
	r.store.payments[p.OrderID()] = dto
	p.MarkPersisted()
	return nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
