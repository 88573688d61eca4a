// Package bulkhead limits concurrent calls per operation class.
package bulkhead

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// ErrFull is returned when no permit became available within MaxWait.
var ErrFull = errors.New("bulkhead full")

// Config describes one bulkhead.
type Config struct {
	Name          string
	MaxConcurrent int64
	MaxWait       time.Duration
}

type Bulkhead struct {
	name    string
	sem     *semaphore.Weighted
	maxWait time.Duration
}

func New(cfg Config) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{
		name:    cfg.Name,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		maxWait: cfg.MaxWait,
	}
}

// Name returns the bulkhead name.
func (b *Bulkhead) Name() string {
	return b.name
}

// Acquire waits up to MaxWait for a permit. The returned release func must be called exactly once.
func (b *Bulkhead) Acquire(ctx context.Context) (func(), error) {
	if err := b.acquire(ctx); err != nil {
		metrics.BulkheadCalls.WithLabelValues(b.name, "rejected").Inc()
		return nil, err
	}
	metrics.BulkheadCalls.WithLabelValues(b.name, "permitted").Inc()

	return func() {
		b.sem.Release(1)
		metrics.BulkheadCalls.WithLabelValues(b.name, "finished").Inc()
	}, nil
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	if b.maxWait <= 0 {
		if !b.sem.TryAcquire(1) {
			return ErrFull
		}
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.maxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrFull
	}
	return nil
}

// Middleware admits a request only when a permit is available, otherwise answers 503.
func (b *Bulkhead) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		release, err := b.Acquire(c.Request.Context())
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Bulkhead call rejected, max concurrent calls reached",
				"bulkhead", b.name,
				slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "service busy, retry later"})
			return
		}
		defer release()

		c.Next()
	}
}
