package kafka_middleware

import (
	"context"
	"time"

	"stayhost/pkg/kafka"
	"stayhost/pkg/logger"
)

// Logging logs every publish with its outcome. Transient failures are logged
// as warnings since the writer already retried them.
func Logging(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"correlation_id", msg.GetCorrelationID(),
			"duration_ms", time.Since(start).Milliseconds(),
		}

		if err != nil {
			attrs = append(attrs, "error", err, "error_type", kafka.ClassifyError(err).String())
			if kafka.IsTransient(err) {
				log.Warn("Failed to publish kafka message", attrs...)
			} else {
				log.Error("Failed to publish kafka message", attrs...)
			}
			return err
		}

		log.Debug("Published kafka message", attrs...)
		return nil
	}
}
