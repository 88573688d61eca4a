package order

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ecommerce-mesh/internal/external/userclient"
	orderdomain "ecommerce-mesh/internal/order/domain/order"
	"ecommerce-mesh/internal/order/handlers"
	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type capturePublisher struct {
	mu  sync.Mutex
	ids []string
}

func (p *capturePublisher) Publish(ctx context.Context, _ messaging.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, correlation.FromContext(ctx))
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ids[len(p.ids)-1]
}

func TestOrderService_PropagatesCorrelationID(t *testing.T) {
	var (
		mu      sync.Mutex
		userSaw []string
	)
	userEngine := gin.New()
	userEngine.Use(logger.CorrelationMiddleware())
	userEngine.GET("/api/users/:id", func(c *gin.Context) {
		mu.Lock()
		userSaw = append(userSaw, correlation.FromContext(c.Request.Context()))
		mu.Unlock()
		c.JSON(http.StatusOK, dto.UserDTO{ID: 7, FirstName: "Ada"})
	})
	userSvc := httptest.NewServer(userEngine)
	defer userSvc.Close()

	repo := orderdomain.NewMockRepo(gomock.NewController(t))
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o orderdomain.Order) (orderdomain.Order, error) {
			o.ID = 1
			return o, nil
		}).AnyTimes()

	pub := &capturePublisher{}
	users := userclient.NewHTTPClient(userclient.HTTPClientConfig{BaseURL: userSvc.URL, Timeout: 5 * time.Second, RetryAttempts: 1})
	engine := NewGinEngine(logger.NewWithWriter("error", io.Discard))
	NewRouter(handlers.NewOrderHandler(orderdomain.NewService(repo, users, pub)), health.NewRegistry()).SetUp(engine)

	server := httptest.NewServer(engine)
	defer server.Close()

	post := func(id string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/orders", strings.NewReader(`{"user_id":7,"fee":10}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if id != "" {
			req.Header.Set(correlation.HeaderName, id)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("caller id reaches user-service and the event", func(t *testing.T) {
		resp := post("order-chain-id")
		defer resp.Body.Close()

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotNil(t, body["user"])
		assert.Equal(t, []string{"order-chain-id"}, resp.Header.Values(correlation.HeaderName))

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "order-chain-id", userSaw[len(userSaw)-1])
		assert.Equal(t, "order-chain-id", pub.last())
	})

	t.Run("generated id is reused for every outbound hop", func(t *testing.T) {
		resp := post("")
		_ = resp.Body.Close()

		generated := resp.Header.Get(correlation.HeaderName)
		_, err := uuid.Parse(generated)
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, generated, userSaw[len(userSaw)-1])
		assert.Equal(t, generated, pub.last())
	})
}
