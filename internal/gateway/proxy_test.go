package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/logger"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	proxy, err := NewProxy(routes, 5*time.Second)
	require.NoError(t, err)

	engine := NewGinEngine(logger.NewWithWriter("error", io.Discard))
	NewRouter(proxy, health.NewRegistry()).SetUp(engine)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server
}

func TestNewProxy_RejectsRelativeUpstream(t *testing.T) {
	_, err := NewProxy(map[string]string{"user-service": "user:8700"}, time.Second)
	assert.Error(t, err)
}

func TestProxy_Match(t *testing.T) {
	proxy, err := NewProxy(map[string]string{"user-service": "http://user:8700"}, time.Second)
	require.NoError(t, err)

	route, path, err := proxy.Match("/user-service/api/users/5")
	require.NoError(t, err)
	assert.Equal(t, "user-service", route.Name)
	assert.Equal(t, "/api/users/5", path)

	_, _, err = proxy.Match("/billing/api")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestProxy_ForwardsCorrelationID(t *testing.T) {
	var (
		mu       sync.Mutex
		received []string
		path     string
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		received = r.Header.Values(correlation.HeaderName)
		path = r.URL.Path + "?" + r.URL.RawQuery
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	gw := newGateway(t, map[string]string{"user-service": upstream.URL})

	req, err := http.NewRequest(http.MethodGet, gw.URL+"/user-service/api/users?page=2", nil)
	require.NoError(t, err)
	req.Header.Add(correlation.HeaderName, "existing-correlation-id-123")
	req.Header.Add(correlation.HeaderName, "second-hop-value")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/users?page=2", path)
	assert.Equal(t, []string{"existing-correlation-id-123"}, received)
	assert.Equal(t, []string{"existing-correlation-id-123"}, resp.Header.Values(correlation.HeaderName))
}

func TestProxy_DeduplicatesUpstreamHeader(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(correlation.HeaderName, r.Header.Get(correlation.HeaderName))
		w.Header().Add(correlation.HeaderName, "stale")
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	gw := newGateway(t, map[string]string{"order-service": upstream.URL})

	req, err := http.NewRequest(http.MethodPost, gw.URL+"/order-service/api/orders", nil)
	require.NoError(t, err)
	req.Header.Set(correlation.HeaderName, "dedupe-me")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"dedupe-me"}, resp.Header.Values(correlation.HeaderName))
}

func TestProxy_UnknownRouteAndUpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	gw := newGateway(t, map[string]string{"shipping-service": downURL})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(gw.URL + "/billing/api/invoices")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(correlation.HeaderName))
	})

	t.Run("upstream down", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, gw.URL+"/shipping-service/api/shippings", nil)
		require.NoError(t, err)
		req.Header.Set(correlation.HeaderName, "down-id")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "upstream unavailable", body["message"])
		assert.Equal(t, []string{"down-id"}, resp.Header.Values(correlation.HeaderName))
	})
}

func TestProxy_KeepsEscapedPath(t *testing.T) {
	var (
		mu  sync.Mutex
		uri string
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		uri = r.RequestURI
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	gw := newGateway(t, map[string]string{"user-service": upstream.URL})

	resp, err := http.Get(gw.URL + "/user-service/api/files/a%2Fb?x=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/files/a%2Fb?x=1", uri)
}

func TestGateway_HTTPMetricsPerRoute(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	gw := newGateway(t, map[string]string{
		"user-service":  upstream.URL,
		"order-service": upstream.URL,
	})

	counter := func(handler string) float64 {
		return testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(handler, http.MethodGet, "200"))
	}
	usersBefore, ordersBefore := counter("/user-service/*"), counter("/order-service/*")

	for _, path := range []string{"/user-service/api/users/1", "/order-service/api/orders/1", "/order-service/api/orders"} {
		resp, err := http.Get(gw.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 1.0, counter("/user-service/*")-usersBefore)
	assert.Equal(t, 2.0, counter("/order-service/*")-ordersBefore)
}

func TestGateway_HealthNotProxied(t *testing.T) {
	gw := newGateway(t, map[string]string{"user-service": "http://127.0.0.1:1"})

	resp, err := http.Get(gw.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

var _ gin.ResponseWriter = (*correlationWriter)(nil)
