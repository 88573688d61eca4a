package messaging

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"ecommerce-mesh/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubWorker struct {
	start  func(ctx context.Context, h MessageHandler) error
	closed atomic.Bool
}

func (w *stubWorker) Start(ctx context.Context, h MessageHandler) error { return w.start(ctx, h) }
func (w *stubWorker) Close() error                                      { w.closed.Store(true); return nil }

func TestRunner_Start(t *testing.T) {
	l := logger.NewWithWriter("error", io.Discard)

	t.Run("stops on cancel and closes workers", func(t *testing.T) {
		w := &stubWorker{start: func(ctx context.Context, _ MessageHandler) error {
			<-ctx.Done()
			return nil
		}}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, NewRunner(l, []Worker{w}, nil).Start(ctx))
		assert.True(t, w.closed.Load())
	})

	t.Run("failing worker stops the others", func(t *testing.T) {
		boom := errors.New("broker gone")
		failing := &stubWorker{start: func(context.Context, MessageHandler) error { return boom }}
		waiting := &stubWorker{start: func(ctx context.Context, _ MessageHandler) error {
			<-ctx.Done()
			return nil
		}}

		err := NewRunner(l, []Worker{failing, waiting}, nil).Start(context.Background())

		assert.ErrorIs(t, err, boom)
		assert.True(t, waiting.closed.Load())
	})

	t.Run("panic becomes an error", func(t *testing.T) {
		w := &stubWorker{start: func(context.Context, MessageHandler) error { panic("bad offset") }}

		assert.Error(t, NewRunner(l, []Worker{w}, nil).Start(context.Background()))
	})
}
