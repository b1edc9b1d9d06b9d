// Package messaging outbox publishers and notification dispatchers
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"posimarket/domain/notification"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// KafkaPublisher writes outbox events to the events topic, keyed by event type.
// Writes are synchronous so a broker failure sends the event back to the outbox retry.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: newWriter(brokers, topic)}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(eventType),
		Value:   []byte(payload),
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// KafkaDispatcher hands notifications to the delivery service through a topic,
// keyed by user so one user's messages stay ordered
type KafkaDispatcher struct {
	w *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{w: newWriter(brokers, topic)}
}

func (d *KafkaDispatcher) Notify(ctx context.Context, n notification.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := d.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.UserID),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka notify %s: %w", n.UserID, err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() error { return d.w.Close() }

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

var _ notification.Dispatcher = (*KafkaDispatcher)(nil)
