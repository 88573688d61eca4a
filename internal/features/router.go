package features

import (
	"ecommerce-mesh/internal/features/handlers"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	feature        *handlers.FeatureHandler
	healthRegistry *health.Registry
}

func NewRouter(feature *handlers.FeatureHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		feature:        feature,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/features")
	api.GET("", r.feature.List)
	api.GET("/environment/:environment", r.feature.List)
	api.GET("/check/:name", r.feature.Check)
	api.GET("/:feature", r.feature.Get)
	api.POST("", r.feature.Create)
	api.PUT("/:feature", r.feature.Update)
	api.PUT("/:feature/enable", r.feature.Enable)
	api.PUT("/:feature/disable", r.feature.Disable)
	api.DELETE("/:feature", r.feature.Delete)
}
