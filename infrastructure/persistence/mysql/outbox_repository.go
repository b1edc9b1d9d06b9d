package mysql

import (
	"context"
	"fmt"

	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/mysql/po"
	"posimarket/infrastructure/persistence/outbox"

	"gorm.io/gorm"
)

// OutboxRepository transactional outbox on MySQL
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent uses the transaction from ctx when called within UnitOfWork.Execute,
// otherwise writes on its own
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	rec, err := outbox.NewRecord(event)
	if err != nil {
		return err
	}
	if err := getDB(ctx, r.db).Create(po.FromOutboxRecord(rec)).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents oldest first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []po.OutboxEventPO
	err := getDB(ctx, r.db).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToRecord()
	}
	return records, nil
}

// MarkEventProcessing claims the event; a second worker loses the race on the status check
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(outbox.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusProcessing),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusPublished),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed counts the attempt; the event goes back to PENDING until maxRetries
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := getDB(ctx, r.db)

	var row po.OutboxEventPO
	if err := db.Select("id", "retry_count").First(&row, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	retries := row.RetryCount + 1
	status := outbox.StatusFailed
	if retries < maxRetries {
		status = outbox.StatusPending
	}
	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":      string(status),
			"retry_count": retries,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
