//go:build !integration

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func headerValues(msg kafka.Message, key string) []string {
	var out []string
	for _, h := range msg.Headers {
		if h.Key == key {
			out = append(out, string(h.Value))
		}
	}
	return out
}

func TestPublisher_Publish(t *testing.T) {
	env, err := messaging.NewEnvelope("42", messaging.TypeOrderCreated, map[string]int{"order_id": 42})
	require.NoError(t, err)

	t.Run("propagates correlation id", func(t *testing.T) {
		w := &fakeWriter{}
		p := &Publisher{writer: w, topic: "orders.events", logger: logger.NewWithWriter("error", io.Discard)}

		err := p.Publish(correlation.WithID(context.Background(), "pub-id"), env)

		require.NoError(t, err)
		require.Len(t, w.messages, 1)
		msg := w.messages[0]
		assert.Equal(t, []byte("42"), msg.Key)
		assert.Equal(t, []string{"pub-id"}, headerValues(msg, correlation.KafkaHeaderName))

		var decoded messaging.Envelope
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, "pub-id", decoded.CorrelationID)
		assert.Equal(t, messaging.TypeOrderCreated, decoded.Type)
	})

	t.Run("adds no header without correlation id", func(t *testing.T) {
		w := &fakeWriter{}
		p := &Publisher{writer: w, topic: "orders.events", logger: logger.NewWithWriter("error", io.Discard)}

		require.NoError(t, p.Publish(context.Background(), env))

		assert.Empty(t, headerValues(w.messages[0], correlation.KafkaHeaderName))
	})

	t.Run("returns writer error", func(t *testing.T) {
		writeErr := errors.New("broker down")
		p := &Publisher{writer: &fakeWriter{err: writeErr}, topic: "orders.events", logger: logger.NewWithWriter("error", io.Discard)}

		assert.ErrorIs(t, p.Publish(context.Background(), env), writeErr)
	})
}

func TestContextFromHeaders(t *testing.T) {
	t.Run("uses header value", func(t *testing.T) {
		ctx := ContextFromHeaders(context.Background(), []kafka.Header{
			{Key: "other", Value: []byte("x")},
			{Key: correlation.KafkaHeaderName, Value: []byte("msg-id")},
		})

		assert.Equal(t, "msg-id", correlation.FromContext(ctx))
	})

	t.Run("generates when header missing or blank", func(t *testing.T) {
		ctx := ContextFromHeaders(context.Background(), []kafka.Header{
			{Key: correlation.KafkaHeaderName, Value: []byte("  ")},
		})

		_, err := uuid.Parse(correlation.FromContext(ctx))
		assert.NoError(t, err)
	})
}

func TestDLQPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &DLQPublisher{writer: w, topic: "orders.events.dlq"}

	err := p.PublishToDLQ(correlation.WithID(context.Background(), "dlq-id"), []byte("k"), []byte("v"), errors.New("index failed"))

	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, []string{"index failed"}, headerValues(w.messages[0], "error"))
	assert.Equal(t, []string{"dlq-id"}, headerValues(w.messages[0], correlation.KafkaHeaderName))
}
