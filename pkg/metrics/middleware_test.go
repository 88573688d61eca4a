package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_HandlerLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == "/named/x" {
			c.Set(HandlerKey, "/named/*")
		}
		c.Status(http.StatusTeapot)
	})

	count := func(handler, status string) float64 {
		return testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(handler, http.MethodGet, status))
	}
	routed, named, unknown := count("/items/:id", "200"), count("/named/*", "418"), count("unknown", "418")

	for _, path := range []string{"/items/1", "/named/x", "/other"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 1.0, count("/items/:id", "200")-routed)
	assert.Equal(t, 1.0, count("/named/*", "418")-named)
	assert.Equal(t, 1.0, count("unknown", "418")-unknown)
}
