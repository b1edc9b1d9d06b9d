package shared

import "context"

// UnitOfWork transaction boundary plus event collection
// Execute runs fn in a transaction carried by ctx; either everything fn wrote
// and every event of registered aggregates is committed, or nothing is.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one unit of work per operation
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores events next to business data
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
