package gateway

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Client -> gateway -> order-service -> user-service, each service with the
// service-side interceptor and the order-service calling out through the
// propagating client.
func TestCorrelationChain(t *testing.T) {
	var (
		mu           sync.Mutex
		userSaw      = map[string]string{}
		orderBound   = map[string]string{}
		orderInbound = map[string][]string{}
	)

	userEngine := gin.New()
	userEngine.Use(logger.CorrelationMiddleware())
	userEngine.GET("/api/users/:id", func(c *gin.Context) {
		mu.Lock()
		userSaw[c.Query("tag")] = c.GetHeader(correlation.HeaderName)
		mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	userSvc := httptest.NewServer(userEngine)
	defer userSvc.Close()

	client := correlation.NewClient(5 * time.Second)
	orderEngine := gin.New()
	orderEngine.Use(logger.CorrelationMiddleware())
	orderEngine.GET("/api/orders/:id", func(c *gin.Context) {
		tag := c.Query("tag")
		mu.Lock()
		orderBound[tag] = correlation.FromContext(c.Request.Context())
		orderInbound[tag] = c.Request.Header.Values(correlation.HeaderName)
		mu.Unlock()

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
			userSvc.URL+"/api/users/1?tag="+tag, nil)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			c.Status(http.StatusBadGateway)
			return
		}
		_ = resp.Body.Close()
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	orderSvc := httptest.NewServer(orderEngine)
	defer orderSvc.Close()

	gw := newGateway(t, map[string]string{
		"order-service": orderSvc.URL,
		"user-service":  userSvc.URL,
	})

	call := func(tag, id string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, gw.URL+"/order-service/api/orders/9?tag="+tag, nil)
		require.NoError(t, err)
		if id != "" {
			req.Header.Set(correlation.HeaderName, id)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp
	}

	t.Run("supplied id survives every hop exactly once", func(t *testing.T) {
		resp := call("supplied", "C")

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []string{"C"}, resp.Header.Values(correlation.HeaderName))
		assert.Equal(t, []string{"C"}, orderInbound["supplied"])
		assert.Equal(t, "C", orderBound["supplied"])
		assert.Equal(t, "C", userSaw["supplied"])
	})

	t.Run("gateway generated id is reused downstream", func(t *testing.T) {
		resp := call("generated", "")

		mu.Lock()
		defer mu.Unlock()
		generated := resp.Header.Values(correlation.HeaderName)
		require.Len(t, generated, 1)
		assert.NotEmpty(t, generated[0])
		assert.Equal(t, generated[0], orderBound["generated"])
		assert.Equal(t, generated[0], userSaw["generated"])
	})

	t.Run("concurrent requests keep their own ids", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, id := range []string{"A", "B"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					resp := call("concurrent-"+id, id)
					assert.Equal(t, []string{id}, resp.Header.Values(correlation.HeaderName))
				}
			}(id)
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "A", userSaw["concurrent-A"])
		assert.Equal(t, "B", userSaw["concurrent-B"])
	})
}
