package mocks

import (
	"context"
	"fmt"

	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/outbox"
)

// OutboxRepository in-memory outbox for the worker
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	rec, err := outbox.NewRecord(event)
	if err != nil {
		return err
	}
	defer r.store.lock(ctx)()
	r.store.outbox = append(r.store.outbox, rec)
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Record, error) {
	defer r.store.lock(ctx)()
	var pending []outbox.Record
	for _, rec := range r.store.outbox {
		if rec.Status == outbox.StatusPending {
			pending = append(pending, rec)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.update(ctx, eventID, func(rec *outbox.Record) error {
		if rec.Status != outbox.StatusPending {
			return fmt.Errorf("event not found or already being processed: %s", eventID)
		}
		rec.Status = outbox.StatusProcessing
		return nil
	})
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.update(ctx, eventID, func(rec *outbox.Record) error {
		rec.Status = outbox.StatusPublished
		return nil
	})
}

func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	return r.update(ctx, eventID, func(rec *outbox.Record) error {
		rec.RetryCount++
		rec.Status = outbox.StatusFailed
		if rec.RetryCount < maxRetries {
			rec.Status = outbox.StatusPending
		}
		return nil
	})
}

func (r *OutboxRepository) update(ctx context.Context, eventID string, fn func(*outbox.Record) error) error {
	defer r.store.lock(ctx)()
	for i := range r.store.outbox {
		if r.store.outbox[i].ID == eventID {
			return fn(&r.store.outbox[i])
		}
	}
	return fmt.Errorf("event not found: %s", eventID)
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
