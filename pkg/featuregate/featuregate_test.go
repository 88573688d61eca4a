package featuregate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	enabled bool
	err     error

	gotName, gotEnv, gotCorrelation string
}

func (s *stubChecker) IsEnabled(ctx context.Context, name, environment string) (bool, error) {
	s.gotName, s.gotEnv = name, environment
	s.gotCorrelation = correlation.FromContext(ctx)
	return s.enabled, s.err
}

func newEngine(checker Checker, called *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware())
	engine.GET("/tracked", Require(checker, "shipment-tracking", "prod"), func(c *gin.Context) {
		*called = true
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequire(t *testing.T) {
	t.Run("enabled passes through with the caller's correlation id", func(t *testing.T) {
		checker := &stubChecker{enabled: true}
		var called bool

		req := httptest.NewRequest(http.MethodGet, "/tracked", nil)
		req.Header.Set(correlation.HeaderName, "gate-id")
		w := httptest.NewRecorder()
		newEngine(checker, &called).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, "shipment-tracking", checker.gotName)
		assert.Equal(t, "prod", checker.gotEnv)
		assert.Equal(t, "gate-id", checker.gotCorrelation)
	})

	t.Run("disabled is 404 and skips the handler", func(t *testing.T) {
		var called bool

		w := httptest.NewRecorder()
		newEngine(&stubChecker{}, &called).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tracked", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"feature 'shipment-tracking' is not enabled"}`, w.Body.String())
		assert.False(t, called)
		assert.NotEmpty(t, w.Header().Get(correlation.HeaderName))
	})

	t.Run("lookup failure is 503", func(t *testing.T) {
		var called bool

		w := httptest.NewRecorder()
		newEngine(&stubChecker{enabled: true, err: errors.New("timeout")}, &called).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tracked", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, called)
	})
}
