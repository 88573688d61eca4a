package order

import (
	"ecommerce-mesh/internal/order/handlers"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	order          *handlers.OrderHandler
	healthRegistry *health.Registry
}

func NewRouter(order *handlers.OrderHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		order:          order,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.GET("/api/orders", r.order.List)
	engine.GET("/api/orders/:id", r.order.Get)
	engine.POST("/api/orders", r.order.Create)
	engine.PUT("/api/orders/:id", r.order.Update)
	engine.DELETE("/api/orders/:id", r.order.Delete)
}
