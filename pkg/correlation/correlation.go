// Package correlation provides utilities for correlation ID propagation.
package correlation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header for correlation ID.
const HeaderName = "X-Correlation-ID"

// KafkaHeaderName is the Kafka header for correlation ID.
const KafkaHeaderName = "X-Correlation-ID"

// LogKey is the attribute key under which the correlation ID appears in log records.
const LogKey = "correlationId"

type contextKey struct{}

// Generator produces a fresh correlation ID.
type Generator func() (string, error)

// DefaultGenerator returns a random UUID v4 in canonical text form.
func DefaultGenerator() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FromContext extracts correlation ID from context.
// Returns empty string if not present.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithID returns a new context with correlation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// NewID generates a new correlation ID (UUID v4).
func NewID() string {
	return uuid.New().String()
}

// IsBlank reports whether v is empty after trimming whitespace.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// Resolve returns incoming verbatim when it is not blank, otherwise a value from gen.
// A nil gen means DefaultGenerator.
func Resolve(incoming string, gen Generator) (string, error) {
	if !IsBlank(incoming) {
		return incoming, nil
	}
	if gen == nil {
		gen = DefaultGenerator
	}
	return gen()
}
