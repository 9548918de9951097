package events

import (
	"context"
	"time"

	"stayhost/pkg/kafka"
	kafka_config "stayhost/pkg/kafka/config"
	kafka_middleware "stayhost/pkg/kafka/middleware"
	"stayhost/pkg/logger"
)

const SchemaVersion = "1"

// Event types published by the assistant and the catalog service.
const (
	AssistantAnswered  = "assistant.answered"
	AssistantThrottled = "assistant.throttled"
	AssistantFailed    = "assistant.failed"

	AccommodationCreated = "accommodation.created"
	AccommodationUpdated = "accommodation.updated"
	AccommodationDeleted = "accommodation.deleted"
)

type Event struct {
	Type          string
	Key           string
	CorrelationID string
	OccurredAt    time.Time
	Payload       any
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher turns events into Kafka messages on a single topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

// NewPublisher returns a Kafka publisher for topic, or a NopPublisher when Kafka is disabled.
func NewPublisher(cfg *kafka_config.Config, topic, source string, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return NopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, topic, log)
	if err != nil {
		return nil, err
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.Logging(log))
	}

	return NewKafkaPublisher(producer, source), nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Key).
		WithValue(event.Payload).
		WithEventID("").
		WithEventType(event.Type).
		WithCorrelationID(event.CorrelationID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(occurred).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// PublishBestEffort publishes event and only logs a failure. Request paths
// never fail because an event could not be sent.
func PublishBestEffort(ctx context.Context, p Publisher, log *logger.Logger, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil && log != nil {
		log.Warn("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"error", err,
		)
	}
}
