package featureclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce-mesh/pkg/correlation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_IsEnabled(t *testing.T) {
	t.Run("asks check endpoint with correlation id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/features/check/shipment-tracking", r.URL.Path)
			assert.Equal(t, "prod", r.URL.Query().Get("environment"))
			assert.Equal(t, []string{"feat-id"}, r.Header.Values(correlation.HeaderName))
			_, _ = w.Write([]byte(`{"enabled":true}`))
		}))
		defer server.Close()

		ctx := correlation.WithID(context.Background(), "feat-id")
		enabled, err := NewHTTPClient(server.URL+"/", time.Second).IsEnabled(ctx, "shipment-tracking", "prod")

		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("omits blank environment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"enabled":false}`))
		}))
		defer server.Close()

		enabled, err := NewHTTPClient(server.URL, time.Second).IsEnabled(context.Background(), "beta", "")

		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewHTTPClient(server.URL, time.Second).IsEnabled(context.Background(), "beta", "dev")

		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
