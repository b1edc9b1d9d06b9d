// Package mocks in-memory persistence
//
// Store keeps every aggregate as reconstruction DTOs behind one mutex. The unit of
// work holds that mutex for the whole of Execute, snapshots the maps, and restores
// them when fn fails, so a failed operation leaves no trace. Repositories called
// inside Execute see the lock marker in ctx and do not lock again.
package mocks

import (
	"context"
	"sync"
	"time"

	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/outbox"
)

type lineKey struct{ cartID, productID string }

type storeTxKey struct{}

// Store in-memory database
type Store struct {
	mu sync.Mutex

	products map[string]catalog.ProductDTO
	users    map[string]catalog.UserDTO
	lines    map[lineKey]cart.LineDTO
	orders   map[string]order.OrderDTO
	payments map[string]payment.DTO // keyed by order id
	outbox   []outbox.Record
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]catalog.ProductDTO),
		users:    make(map[string]catalog.UserDTO),
		lines:    make(map[lineKey]cart.LineDTO),
		orders:   make(map[string]order.OrderDTO),
		payments: make(map[string]payment.DTO),
	}
}

// lock acquires the store unless ctx already runs inside this store's unit of work
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// InTransaction reports whether ctx runs inside a unit of work of this store
func (s *Store) InTransaction(ctx context.Context) bool {
	return s.inTx(ctx)
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(storeTxKey{}).(*Store)
	return owner == s
}

type snapshot struct {
	products map[string]catalog.ProductDTO
	users    map[string]catalog.UserDTO
	lines    map[lineKey]cart.LineDTO
	orders   map[string]order.OrderDTO
	payments map[string]payment.DTO
	outbox   []outbox.Record
}

// snapshot copies the maps; DTO values are replaced whole on save, never mutated
func (s *Store) snapshot() snapshot {
	return snapshot{
		products: cloneMap(s.products),
		users:    cloneMap(s.users),
		lines:    cloneMap(s.lines),
		orders:   cloneMap(s.orders),
		payments: cloneMap(s.payments),
		outbox:   append([]outbox.Record(nil), s.outbox...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.users = snap.users
	s.lines = snap.lines
	s.orders = snap.orders
	s.payments = snap.payments
	s.outbox = snap.outbox
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PutProduct seeds or replaces a product
func (s *Store) PutProduct(p catalog.ProductDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// PutUser seeds or replaces a user
func (s *Store) PutUser(u catalog.UserDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Counts rows per table, for tests
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"products":   len(s.products),
		"users":      len(s.users),
		"cart_lines": len(s.lines),
		"orders":     len(s.orders),
		"payments":   len(s.payments),
		"outbox":     len(s.outbox),
	}
}

// OutboxEvents copy of every stored outbox record
func (s *Store) OutboxEvents() []outbox.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]outbox.Record(nil), s.outbox...)
}

// Ping reports the store as always reachable
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Seed loads a small catalog for local runs with database.type=mock
func (s *Store) Seed(now time.Time) {
	users := []catalog.UserDTO{
		{ID: "platform", Name: "PosiMarket", Kind: catalog.SellerPlatform, Role: catalog.RoleUser,
			Address: catalog.Address{City: "São Paulo", State: "SP", PostalCode: "01310-100"}},
		{ID: "escola-sol", Name: "Escola Sol", Kind: catalog.SellerInstitutional,
			Address: catalog.Address{City: "Campinas", State: "SP", PostalCode: "13010-001"}},
		{ID: "ana", Name: "Ana Souza", Kind: catalog.SellerIndividual,
			Address: catalog.Address{City: "São Paulo", State: "SP", PostalCode: "04538-133"}},
		{ID: "buyer-1", Name: "Carlos Lima", Kind: catalog.SellerIndividual,
			Address: catalog.Address{City: "São Paulo", State: "SP", PostalCode: "05409-000"}},
		{ID: "admin", Name: "Operations", Role: catalog.RoleAdmin},
	}
	products := []catalog.ProductDTO{
		{ID: "notebook-pack", SellerID: "platform", Title: "Notebook pack (10)", Price: shared.MustParseMoney("49.90"), Stock: 120, Condition: catalog.ConditionNew, WeightKg: 2.1},
		{ID: "uniform-m", SellerID: "escola-sol", Title: "School uniform M", Price: shared.MustParseMoney("35.00"), Stock: 8, Condition: catalog.ConditionLikeNew, WeightKg: 0.4},
		{ID: "backpack-blue", SellerID: "ana", Title: "Blue backpack", Price: shared.MustParseMoney("60.00"), Stock: 1, Condition: catalog.ConditionUsed, WeightKg: 0.9,
			Dimensions: catalog.Dimensions{LengthCm: 45, WidthCm: 30, HeightCm: 15}},
		{ID: "calculator-hp", SellerID: "ana", Title: "Scientific calculator", Price: shared.MustParseMoney("80.00"), Stock: 2, Condition: catalog.ConditionUsed},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		u.CreatedAt = now
		s.users[u.ID] = u
	}
	for _, p := range products {
		p.CreatedAt, p.UpdatedAt = now, now
		s.products[p.ID] = p
	}
}
