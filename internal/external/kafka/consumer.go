package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const (
	commitTimeout = 5 * time.Second
)

// Consumer implements messaging.Worker using Kafka.
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,    // Commit synchronously for reliability
		StartOffset:    kafka.FirstOffset,
		// Faster consumer group coordination
		MaxWait:          500 * time.Millisecond,
		RebalanceTimeout: 5 * time.Second,
	})

	return &Consumer{
		reader: reader,
	}
}

// Start begins consuming messages and passes them to the handler.
// Blocks until context is cancelled or an unrecoverable error occurs.
func (c *Consumer) Start(ctx context.Context, handler messaging.MessageHandler) error {
	cfg := c.reader.Config()
	slog.Info("Consumer started",
		"topic", cfg.Topic,
		"group_id", cfg.GroupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Graceful shutdown - context cancellation is not an error
			if errors.Is(err, context.Canceled) {
				slog.Info("Consumer stopped (context cancelled)")
				return nil
			}
			slog.Error("Failed to fetch message", slog.Any("error", err))
			return err
		}

		msgCtx := ContextFromHeaders(ctx, msg.Headers)

		slog.DebugContext(msgCtx, "Message received",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key))

		start := time.Now()
		err = handler(msgCtx, msg.Key, msg.Value)
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.KafkaProcessingDuration.WithLabelValues(msg.Topic, cfg.GroupID, status).Observe(time.Since(start).Seconds())
		metrics.KafkaMessagesProcessed.WithLabelValues(msg.Topic, cfg.GroupID, status).Inc()

		if err != nil {
			slog.ErrorContext(msgCtx, "Handler error, message not committed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
				slog.Any("error", err))
			// Don't commit - message will be redelivered on restart
			continue
		}

		// Use separate context for commit to avoid losing successfully processed messages
		// when main context is cancelled during shutdown
		commitCtx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		err = c.reader.CommitMessages(commitCtx, msg)
		cancel()
		if err != nil {
			slog.ErrorContext(msgCtx, "Failed to commit message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				slog.Any("error", err))
			continue
		}

		slog.DebugContext(msgCtx, "Message committed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset)
	}
}

// Close closes the Kafka reader.
func (c *Consumer) Close() error {
	slog.Info("Closing consumer",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID)
	return c.reader.Close()
}

// ContextFromHeaders binds the correlation ID carried in Kafka headers to ctx.
// The first non-blank header wins; a new ID is generated when there is none, so an
// asynchronous hop is never processed without correlation.
func ContextFromHeaders(ctx context.Context, headers []kafka.Header) context.Context {
	for _, h := range headers {
		if h.Key == correlation.KafkaHeaderName && !correlation.IsBlank(string(h.Value)) {
			return correlation.WithID(ctx, string(h.Value))
		}
	}
	id, err := correlation.DefaultGenerator()
	if err != nil {
		return ctx
	}
	return correlation.WithID(ctx, id)
}
