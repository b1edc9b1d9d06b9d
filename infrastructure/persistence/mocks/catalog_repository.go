package mocks

import (
	"context"

	"posimarket/domain/catalog"
)

// ProductRepository in-memory product directory
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	defer r.store.lock(ctx)()
	dto, ok := r.store.products[id]
	if !ok {
		return nil, catalog.NewProductNotFoundError(id)
	}
	return catalog.RebuildProduct(dto), nil
}

// FindByIDForUpdate the unit of work already serializes access
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	defer r.store.lock(ctx)()
	dto, ok := r.store.products[id]
	if !ok {
		return catalog.NewProductNotFoundError(id)
	}
	if dto.Stock < quantity {
		return catalog.NewInsufficientStockError(id, quantity, dto.Stock)
	}
	dto.Stock -= quantity
	r.store.products[id] = dto
	return nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	defer r.store.lock(ctx)()
	dto, ok := r.store.products[id]
	if !ok {
		return catalog.NewProductNotFoundError(id)
	}
	dto.Stock += quantity
	r.store.products[id] = dto
	return nil
}

func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	defer r.store.lock(ctx)()
	r.store.products[product.ID()] = product.ToDTO()
	return nil
}

// UserRepository in-memory account directory
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*catalog.User, error) {
	defer r.store.lock(ctx)()
	dto, ok := r.store.users[id]
	if !ok {
		return nil, catalog.NewUserNotFoundError(id)
	}
	return catalog.RebuildUser(dto), nil
}

func (r *UserRepository) Save(ctx context.Context, user *catalog.User) error {
	defer r.store.lock(ctx)()
	r.store.users[user.ID()] = user.ToDTO()
	return nil
}

var (
	_ catalog.ProductRepository = (*ProductRepository)(nil)
	_ catalog.UserRepository    = (*UserRepository)(nil)
)
