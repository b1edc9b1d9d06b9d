// Package notification Application Layer - turns outbox events into user notifications
package notification

import (
	"context"

	"posimarket/domain/notification"
	"posimarket/infrastructure/persistence/outbox"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

// Relay publishes an outbox event as one notification per recipient.
//
// Delivery is fire-and-forget: a failed recipient is logged and skipped, and the
// event still counts as published so the others are not notified twice on retry.
// Only a payload that cannot be decoded fails the event. In an outbox.ChainPublisher
// the relay goes last, so an event another publisher rejected never reaches it.
type Relay struct {
	dispatcher notification.Dispatcher
}

func NewRelay(dispatcher notification.Dispatcher) *Relay {
	return &Relay{dispatcher: dispatcher}
}

func (r *Relay) Publish(ctx context.Context, eventType, payload string) error {
	env, err := notification.ParseEnvelope(payload)
	if err != nil {
		return err
	}

	for _, n := range env.Expand() {
		if err := r.dispatcher.Notify(ctx, n); err != nil {
			logger.WithContext(ctx).Warn("Notification delivery failed",
				zap.String("event_type", eventType),
				zap.String("user_id", n.UserID),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ outbox.Publisher = (*Relay)(nil)
