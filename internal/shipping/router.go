package shipping

import (
	"ecommerce-mesh/internal/shipping/handlers"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	shipment       *handlers.ShipmentHandler
	healthRegistry *health.Registry
	tracking       []gin.HandlerFunc
}

// NewRouter wires the shipment API. tracking runs in front of shipment
// lookups, e.g. a featuregate.Require guard; none means always on.
func NewRouter(shipment *handlers.ShipmentHandler, healthRegistry *health.Registry, tracking ...gin.HandlerFunc) *Router {
	return &Router{
		shipment:       shipment,
		healthRegistry: healthRegistry,
		tracking:       tracking,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.Group("/api/shipments", r.tracking...).GET("/:order_id", r.shipment.Get)
}
