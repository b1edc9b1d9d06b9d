// Package outbox transactional outbox records and the worker that publishes them
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"posimarket/domain/shared"
	"posimarket/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status outbox row state
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusPublished  Status = "PUBLISHED"
	StatusFailed     Status = "FAILED"
)

// Record stored domain event
type Record struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string // JSON of the event struct
	Status      Status
	RetryCount  int
	CreatedAt   time.Time
}

// NewRecord serializes an event for the outbox
func NewRecord(event shared.DomainEvent) (Record, error) {
	if err := shared.ValidateEvent(event); err != nil {
		return Record{}, fmt.Errorf("invalid domain event: %w", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize %s: %w", event.EventName(), err)
	}
	return Record{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     string(payload),
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Store what the worker needs from outbox storage
type Store interface {
	GetPendingEvents(ctx context.Context, limit int) ([]Record, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error
}

// Publisher delivers one stored event
type Publisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// LoggingPublisher writes events to the log; used when no broker is configured
type LoggingPublisher struct{}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType, payload string) error {
	logger.WithContext(ctx).Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

// ChainPublisher hands an event to each publisher in order and stops at the first
// failure, so a later publisher only sees events every earlier one accepted.
// Side effects that must not repeat on retry, such as user notifications, go last.
type ChainPublisher []Publisher

func (c ChainPublisher) Publish(ctx context.Context, eventType, payload string) error {
	for i, p := range c {
		if err := p.Publish(ctx, eventType, payload); err != nil {
			return fmt.Errorf("publisher %d of %d: %w", i+1, len(c), err)
		}
	}
	return nil
}

// Worker polls pending events and publishes them
type Worker struct {
	store        Store
	publisher    Publisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewWorker(
	store Store,
	publisher Publisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*Worker, error) {
	if store == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &Worker{
		store:        store,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}, nil
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending events and reports how many went out
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.store.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.store.MarkEventProcessing(ctx, event.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
			logger.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if failErr := w.store.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.store.MarkEventPublished(ctx, event.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
