package correlation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInject(t *testing.T) {
	t.Parallel()

	t.Run("sets header from context", func(t *testing.T) {
		h := http.Header{}
		h.Set("Accept", "application/json")

		ok := Inject(WithID(context.Background(), "test-correlation-id-123"), h)

		assert.True(t, ok)
		assert.Equal(t, []string{"test-correlation-id-123"}, h.Values(HeaderName))
		assert.Equal(t, "application/json", h.Get("Accept"))
	})

	t.Run("adds nothing without bound id", func(t *testing.T) {
		h := http.Header{}

		ok := Inject(context.Background(), h)

		assert.False(t, ok)
		_, present := h[http.CanonicalHeaderKey(HeaderName)]
		assert.False(t, present)
	})

	t.Run("is idempotent", func(t *testing.T) {
		ctx := WithID(context.Background(), "same")
		first, second := http.Header{}, http.Header{}

		Inject(ctx, first)
		Inject(ctx, second)
		Inject(ctx, second)

		assert.Equal(t, first.Values(HeaderName), second.Values(HeaderName))
		assert.Len(t, second.Values(HeaderName), 1)
	})
}

func TestTransport(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen = map[string][]string{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = r.Header.Values(HeaderName)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)

	do := func(ctx context.Context, path string) *http.Request {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return req
	}

	t.Run("propagates bound id", func(t *testing.T) {
		req := do(WithID(context.Background(), "C"), "/bound")

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"C"}, seen["/bound"])
		assert.Empty(t, req.Header.Get(HeaderName), "caller request is not mutated")
	})

	t.Run("sends no header when unbound", func(t *testing.T) {
		do(context.Background(), "/unbound")

		mu.Lock()
		defer mu.Unlock()
		assert.Empty(t, seen["/unbound"])
	})

	t.Run("does not cross contaminate concurrent calls", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, id := range []string{"A", "B"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					do(WithID(context.Background(), id), "/concurrent-"+id)
					mu.Lock()
					got := seen["/concurrent-"+id]
					mu.Unlock()
					assert.Equal(t, []string{id}, got)
				}
			}(id)
		}
		wg.Wait()
	})
}
