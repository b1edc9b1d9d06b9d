package po

import (
	"time"

	"posimarket/infrastructure/persistence/outbox"
)

// OutboxEventPO stored domain event awaiting publication
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"` // e.g. "order.placed", "payment.approved"
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null;index:idx_status_created,priority:1"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"index:idx_status_created,priority:2"`
	UpdatedAt   time.Time
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

func FromOutboxRecord(rec outbox.Record) *OutboxEventPO {
	return &OutboxEventPO{
		ID:          rec.ID,
		AggregateID: rec.AggregateID,
		EventType:   rec.EventType,
		Payload:     rec.Payload,
		Status:      string(rec.Status),
		RetryCount:  rec.RetryCount,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.CreatedAt,
	}
}

func (po *OutboxEventPO) ToRecord() outbox.Record {
	return outbox.Record{
		ID:          po.ID,
		AggregateID: po.AggregateID,
		EventType:   po.EventType,
		Payload:     po.Payload,
		Status:      outbox.Status(po.Status),
		RetryCount:  po.RetryCount,
		CreatedAt:   po.CreatedAt,
	}
}

// All every table, in creation order, for AutoMigrate
func All() []any {
	return []any{
		&UserPO{},
		&ProductPO{},
		&CartLinePO{},
		&OrderPO{},
		&OrderItemPO{},
		&OrderHistoryPO{},
		&PaymentPO{},
		&OutboxEventPO{},
	}
}
