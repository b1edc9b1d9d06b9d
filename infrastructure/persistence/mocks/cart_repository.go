package mocks

import (
	"context"
	"sort"
	"time"

	"posimarket/domain/cart"
)

// CartRepository in-memory reservation lines
type CartRepository struct {
	store *Store
}

func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) FindLine(ctx context.Context, cartID, productID string) (*cart.Line, error) {
	defer r.store.lock(ctx)()
	dto, ok := r.store.lines[lineKey{cartID, productID}]
	if !ok {
		return nil, nil
	}
	return cart.RebuildLine(dto), nil
}

func (r *CartRepository) ListByCart(ctx context.Context, cartID string) ([]*cart.Line, error) {
	defer r.store.lock(ctx)()
	var lines []*cart.Line
	for k, dto := range r.store.lines {
		if k.cartID == cartID {
			lines = append(lines, cart.RebuildLine(dto))
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ReservedAt().Before(lines[j].ReservedAt()) })
	return lines, nil
}

func (r *CartRepository) SumHeld(ctx context.Context, productID string, now time.Time, excludeCartID string) (int, error) {
	defer r.store.lock(ctx)()
	held := 0
	for k, dto := range r.store.lines {
		if k.productID != productID || (excludeCartID != "" && k.cartID == excludeCartID) {
			continue
		}
		if dto.ExpiresAt.After(now) {
			held += dto.Quantity
		}
	}
	return held, nil
}

func (r *CartRepository) Save(ctx context.Context, line *cart.Line) error {
	defer r.store.lock(ctx)()
	dto := line.ToDTO()
	key := lineKey{dto.CartID, dto.ProductID}
	if existing, ok := r.store.lines[key]; ok {
		dto.ID = existing.ID
	}
	r.store.lines[key] = dto
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, cartID, productID string) error {
	defer r.store.lock(ctx)()
	delete(r.store.lines, lineKey{cartID, productID})
	return nil
}

func (r *CartRepository) DeleteForProducts(ctx context.Context, cartID string, productIDs []string) error {
	defer r.store.lock(ctx)()
	for _, id := range productIDs {
		delete(r.store.lines, lineKey{cartID, id})
	}
	return nil
}

func (r *CartRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	defer r.store.lock(ctx)()
	var n int64
	for k, dto := range r.store.lines {
		if dto.ExpiresAt.Before(now) {
			delete(r.store.lines, k)
			n++
		}
	}
	return n, nil
}

var _ cart.Repository = (*CartRepository)(nil)
