package cmd

import (
	"context"
	"time"

	cartapp "posimarket/application/cart"
	notificationapp "posimarket/application/notification"
	"posimarket/config"
	"posimarket/domain/notification"
	"posimarket/infrastructure/messaging"
	"posimarket/infrastructure/persistence/outbox"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

// NewOutboxWorker publishes stored events to Kafka, or the log when Kafka is
// disabled, and relays notifications to the affected users. The returned func
// closes the Kafka writers.
func NewOutboxWorker(cfg *config.Config, store outbox.Store) (*outbox.Worker, func(), error) {
	var (
		events     outbox.Publisher
		dispatcher notification.Dispatcher
		closers    []func() error
	)

	if cfg.Kafka.Enabled {
		publisher := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		notifier := messaging.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
		events, dispatcher = publisher, notifier
		closers = append(closers, publisher.Close, notifier.Close)
	} else {
		events, dispatcher = &outbox.LoggingPublisher{}, messaging.LoggingDispatcher{}
	}

	worker, err := outbox.NewWorker(
		store,
		outbox.ChainPublisher{events, notificationapp.NewRelay(dispatcher)},
		cfg.Worker.PollInterval,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		}
	}
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return worker, closeAll, nil
}

// RunSweeper deletes expired reservations every interval until ctx is done
func RunSweeper(ctx context.Context, carts *cartapp.ApplicationService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := carts.SweepExpired(ctx); err != nil {
				logger.Warn("Reservation sweep failed", zap.Error(err))
			}
		}
	}
}
