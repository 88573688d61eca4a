package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBody = 8 * 1024 // 8KB

func limit(b []byte) []byte {
	if len(b) > maxBody {
		return b[:maxBody]
	}
	return b
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if room := maxBody - r.body.Len(); room > 0 {
		r.body.Write(b[:min(len(b), room)])
	}
	return r.ResponseWriter.Write(b)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// peekBody returns up to maxBody bytes of the request body and restores the
// body so the handler still reads it in full.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxBody))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	return head
}

type middlewareOptions struct {
	generator correlation.Generator
}

// MiddlewareOption configures CorrelationMiddleware.
type MiddlewareOption func(*middlewareOptions)

// WithGenerator overrides how missing correlation IDs are generated.
func WithGenerator(gen correlation.Generator) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.generator = gen
	}
}

// CorrelationMiddleware extracts X-Correlation-ID from request header or generates a new one.
// The ID is bound to the request context for the duration of the handler chain and
// added to the response header unless the response already carries one.
// The original request (without the ID) is restored on every exit path.
func CorrelationMiddleware(opts ...MiddlewareOption) gin.HandlerFunc {
	o := middlewareOptions{generator: correlation.DefaultGenerator}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		original := c.Request
		defer func() { c.Request = original }()

		incoming := c.GetHeader(correlation.HeaderName)
		corrID, err := correlation.Resolve(incoming, o.generator)
		metrics.CorrelationIDs.WithLabelValues("service", metrics.CorrelationOrigin(incoming, err)).Inc()
		if err != nil {
			// Correlation must never block a request.
			slog.DebugContext(original.Context(), "Correlation ID unavailable, continuing without it",
				slog.Any("error", err))
			c.Next()
			return
		}

		// Store in request context (accessible via c.Request.Context())
		c.Request = original.WithContext(correlation.WithID(original.Context(), corrID))

		if len(c.Writer.Header().Values(correlation.HeaderName)) == 0 {
			c.Header(correlation.HeaderName, corrID)
		}

		c.Next()
	}
}

// GinBodyLogger logs each request with its status, bodies and correlation ID.
func (l *Logger) GinBodyLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestBody := peekBody(c.Request)

		responseBuffer := &bytes.Buffer{}
		writer := &responseBodyWriter{
			body:           responseBuffer,
			ResponseWriter: c.Writer,
		}
		c.Writer = writer

		// Captured before c.Next: the correlation middleware restores the request on exit.
		ctx := c.Request.Context()

		c.Next()

		logEvent := withCorrelation(ctx, l.logger.Info())

		logEvent = logEvent.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status())

		logEvent = addMaybeJSON(logEvent, "request_body", limit(requestBody))
		logEvent = addMaybeJSON(logEvent, "response_body", limit(responseBuffer.Bytes()))

		logEvent.Msg("HTTP Request")
	}
}

func addMaybeJSON(e *zerolog.Event, key string, b []byte) *zerolog.Event {
	bb := bytes.TrimSpace(b)

	if len(bb) == 0 {
		return e.RawJSON(key, []byte("null"))
	}

	if json.Valid(bb) {
		return e.RawJSON(key, bb)
	}

	// not JSON: log as string so the line stays valid
	return e.Str(key, string(bb))
}
