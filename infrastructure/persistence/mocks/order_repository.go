package mocks

import (
	"context"
	"sort"

	"posimarket/domain/order"
)

// OrderRepository in-memory orders with the same optimistic check as MySQL
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	defer r.store.lock(ctx)()

	dto := o.ToDTO()
	if !o.IsNew() {
		existing, ok := r.store.orders[o.ID()]
		if !ok {
			return order.NewOrderNotFoundError(o.ID())
		}
		if existing.Version != o.Version() {
			return order.NewConcurrentModificationError(o.ID())
		}
		dto.Version = o.Version() + 1
	}
	r.store.orders[o.ID()] = dto
	o.MarkPersisted()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	defer r.store.lock(ctx)()
	dto, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindChildren(ctx context.Context, parentID string) ([]*order.Order, error) {
	children := r.filter(ctx, func(dto order.OrderDTO) bool { return dto.ParentOrderID == parentID })
	sort.Slice(children, func(i, j int) bool { return children[i].Number() < children[j].Number() })
	return children, nil
}

func (r *OrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error) {
	return newestFirst(r.filter(ctx, func(dto order.OrderDTO) bool {
		return dto.BuyerID == buyerID && dto.ParentOrderID == ""
	})), nil
}

func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]*order.Order, error) {
	return newestFirst(r.filter(ctx, func(dto order.OrderDTO) bool {
		return dto.SellerID == sellerID && dto.ParentOrderID != ""
	})), nil
}

func (r *OrderRepository) filter(ctx context.Context, keep func(order.OrderDTO) bool) []*order.Order {
	defer r.store.lock(ctx)()
	var out []*order.Order
	for _, dto := range r.store.orders {
		if keep(dto) {
			out = append(out, order.RebuildFromDTO(dto))
		}
	}
	return out
}

func newestFirst(orders []*order.Order) []*order.Order {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().After(orders[j].CreatedAt())
		}
		return orders[i].Number() > orders[j].Number()
	})
	return orders
}

var _ order.Repository = (*OrderRepository)(nil)
