package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestRegistry_CheckAll(t *testing.T) {
	t.Parallel()

	t.Run("up without checkers", func(t *testing.T) {
		assert.Equal(t, StatusUp, NewRegistry().CheckAll(context.Background()).Status)
	})

	t.Run("down when any check fails", func(t *testing.T) {
		r := NewRegistry(NewPostgresChecker(stubPinger{}))
		r.Add(NewPostgresChecker(stubPinger{err: errors.New("connection refused")}))

		resp := r.CheckAll(context.Background())

		assert.Equal(t, StatusDown, resp.Status)
		require.Len(t, resp.Checks, 2)
		assert.Equal(t, StatusUp, resp.Checks[0].Status)
		assert.Equal(t, "connection refused", resp.Checks[1].Message)
	})
}

func TestHTTPChecker(t *testing.T) {
	t.Parallel()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	assert.Equal(t, StatusUp, NewHTTPChecker("user-service", healthy.URL, nil).Check(context.Background()).Status)

	res := NewHTTPChecker("order-service", unhealthy.URL, nil).Check(context.Background())
	assert.Equal(t, StatusDown, res.Status)
	assert.Equal(t, "status 503", res.Message)
}

func TestKafkaChecker_NoBrokers(t *testing.T) {
	res := NewKafkaChecker(nil).Check(context.Background())

	assert.Equal(t, StatusDown, res.Status)
	assert.Equal(t, "no brokers configured", res.Message)
}

func TestReadinessHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health/ready", ReadinessHandler(
		NewRegistry(NewPostgresChecker(stubPinger{err: errors.New("timeout")})), DefaultTimeout))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StatusDown, body.Status)
	assert.Equal(t, "postgres", body.Checks[0].Name)
}
