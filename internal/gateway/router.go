package gateway

import (
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	proxy          *Proxy
	healthRegistry *health.Registry
}

func NewRouter(proxy *Proxy, healthRegistry *health.Registry) *Router {
	return &Router{
		proxy:          proxy,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Everything else is /{service}/... and goes upstream.
	engine.NoRoute(r.proxy.Handle)
}
