package mocks

import (
	"context"
	"fmt"

	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/outbox"
)

// UnitOfWork all-or-nothing execution against the in-memory store
type UnitOfWork struct {
	store      *Store
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Execute serializes with every other unit of work on the store. When ctx already
// belongs to an outer unit of work the call joins it: the outer snapshot covers
// both, and events of this unit are stored when fn succeeds.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = u.aggregates[:0]

	if u.store.inTx(ctx) {
		if err := fn(ctx); err != nil {
			return err
		}
		return u.flushEvents()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	txCtx := context.WithValue(ctx, storeTxKey{}, u.store)

	err := fn(txCtx)
	if err == nil {
		err = u.flushEvents()
	}
	if err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// flushEvents stores the events of registered aggregates; caller holds the lock
func (u *UnitOfWork) flushEvents() error {
	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			rec, err := outbox.NewRecord(event)
			if err != nil {
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
			u.store.outbox = append(u.store.outbox, rec)
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory one unit of work per operation
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
