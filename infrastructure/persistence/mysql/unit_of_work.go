package mysql

import (
	"context"
	"fmt"
	"time"

	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence"
	"posimarket/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db               *gorm.DB
	aggregates       []shared.AggregateRoot
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	txTimeout        time.Duration
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		aggregates:       make([]shared.AggregateRoot, 0),
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.DefaultConfig,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// SetTxTimeout bounds each attempt; zero means no bound beyond ctx
func (u *UnitOfWork) SetTxTimeout(d time.Duration) {
	u.txTimeout = d
}

// Execute runs fn inside a database transaction:
// 1. Begins a transaction and injects it into ctx for repositories
// 2. Executes fn
// 3. Saves the events of registered aggregates to the outbox in the same transaction
// 4. Commits on success, rolls back on error
// 5. Retries the whole attempt on deadlocks, lock timeouts and version conflicts
//
// When ctx already carries a transaction the call joins it; the outer unit of
// work owns commit, rollback and retry.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		u.aggregates = u.aggregates[:0]
		if err := fn(ctx); err != nil {
			return err
		}
		return u.saveEvents(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		// Reset aggregates for this attempt
		u.aggregates = make([]shared.AggregateRoot, 0)

		if u.txTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, u.txTimeout)
			defer cancel()
		}

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}
		if err := u.saveEvents(txCtx); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

func (u *UnitOfWork) saveEvents(txCtx context.Context) error {
	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
		}
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
