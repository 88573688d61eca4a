package user

import (
	"ecommerce-mesh/internal/user/handlers"
	"ecommerce-mesh/pkg/bulkhead"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	user           *handlers.UserHandler
	critical       *bulkhead.Bulkhead
	nonCritical    *bulkhead.Bulkhead
	healthRegistry *health.Registry
}

func NewRouter(
	user *handlers.UserHandler,
	critical *bulkhead.Bulkhead,
	nonCritical *bulkhead.Bulkhead,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		user:           user,
		critical:       critical,
		nonCritical:    nonCritical,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/users")

	reads := api.Group("", r.nonCritical.Middleware())
	reads.GET("", r.user.List)
	reads.GET("/:id", r.user.Get)

	writes := api.Group("", r.critical.Middleware())
	writes.POST("", r.user.Create)
	writes.PUT("/:id", r.user.Update)
	writes.DELETE("/:id", r.user.Delete)
}
