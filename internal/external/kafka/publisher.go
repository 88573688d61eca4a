// Package kafka implements the messaging contracts on top of segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"

	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *logger.Logger
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(l *logger.Logger, brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: l,
	}
}

// Publish sends an envelope to Kafka. The correlation ID of ctx travels both as a
// message header and inside the envelope.
func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	msg, err := buildMessage(ctx, env)
	if err != nil {
		return err
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorCtx(ctx, "Failed to publish message: topic=%s key=%s error=%v",
			p.topic, env.Key, err)
		return err
	}

	p.logger.DebugCtx(ctx, "Message published: topic=%s key=%s event_id=%s",
		p.topic, env.Key, env.EventID)
	return nil
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(ctx context.Context, env messaging.Envelope) (kafka.Message, error) {
	corrID := correlation.FromContext(ctx)
	if corrID != "" && env.CorrelationID == "" {
		env.CorrelationID = corrID
	}

	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
	}

	// Add correlation ID header if present in context
	if corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.KafkaHeaderName,
			Value: []byte(corrID),
		})
	}
	return msg, nil
}
