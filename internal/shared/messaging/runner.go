package messaging

import (
	"context"
	"fmt"
	"runtime/debug"

	"ecommerce-mesh/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Runner runs workers concurrently with one handler.
type Runner struct {
	logger  *logger.Logger
	workers []Worker
	handler MessageHandler
}

func NewRunner(l *logger.Logger, workers []Worker, handler MessageHandler) *Runner {
	return &Runner{
		logger:  l,
		workers: workers,
		handler: handler,
	}
}

// Start blocks until ctx is cancelled or a worker fails. Workers are closed on return.
func (r *Runner) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i, w := range r.workers {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error("Worker panic recovered: worker_idx=%d panic=%v stack=%s",
						i, rec, string(debug.Stack()))
					err = fmt.Errorf("worker %d panicked: %v", i, rec)
				}
				if cerr := w.Close(); cerr != nil {
					r.logger.Error("Failed to close worker: worker_idx=%d error=%v", i, cerr)
				}
			}()
			return w.Start(ctx, r.handler)
		})
	}

	return g.Wait()
}
