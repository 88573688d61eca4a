package gateway

import (
	"log/slog"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// correlationWriter adds the correlation header to the response at header-write time
// unless the downstream already set it.
type correlationWriter struct {
	gin.ResponseWriter
	id string
}

func (w *correlationWriter) ensureHeader() {
	if len(w.ResponseWriter.Header().Values(correlation.HeaderName)) == 0 {
		w.ResponseWriter.Header().Set(correlation.HeaderName, w.id)
	}
}

func (w *correlationWriter) WriteHeader(code int) {
	w.ensureHeader()
	w.ResponseWriter.WriteHeader(code)
}

func (w *correlationWriter) WriteHeaderNow() {
	w.ensureHeader()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *correlationWriter) Write(b []byte) (int, error) {
	w.ensureHeader()
	return w.ResponseWriter.Write(b)
}

func (w *correlationWriter) WriteString(s string) (int, error) {
	w.ensureHeader()
	return w.ResponseWriter.WriteString(s)
}

func (w *correlationWriter) Flush() {
	w.ensureHeader()
	w.ResponseWriter.Flush()
}

type filterOptions struct {
	generator correlation.Generator
}

// FilterOption configures CorrelationFilter.
type FilterOption func(*filterOptions)

// WithGenerator overrides how missing correlation IDs are generated.
func WithGenerator(gen correlation.Generator) FilterOption {
	return func(o *filterOptions) {
		o.generator = gen
	}
}

// CorrelationFilter guarantees every request passing the gateway carries X-Correlation-ID
// both towards the upstream and back to the caller. It must be the first middleware of
// the engine so it runs first inbound and last outbound.
func CorrelationFilter(opts ...FilterOption) gin.HandlerFunc {
	o := filterOptions{generator: correlation.DefaultGenerator}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		incoming := c.GetHeader(correlation.HeaderName)
		corrID, err := correlation.Resolve(incoming, o.generator)
		metrics.CorrelationIDs.WithLabelValues("gateway", metrics.CorrelationOrigin(incoming, err)).Inc()
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Correlation ID generation failed, forwarding request as is",
				slog.Any("error", err))
			c.Next()
			return
		}

		original := c.Request
		defer func() { c.Request = original }()

		// Replaces any prior value on the forwarded request.
		original.Header.Set(correlation.HeaderName, corrID)
		c.Request = original.WithContext(correlation.WithID(original.Context(), corrID))

		writer := &correlationWriter{ResponseWriter: c.Writer, id: corrID}
		c.Writer = writer

		c.Next()

		// Nothing written yet (e.g. bare status): headers are still mutable here.
		if !writer.Written() {
			writer.ensureHeader()
		}
	}
}
