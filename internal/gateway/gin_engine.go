package gateway

import (
	"ecommerce-mesh/pkg/logger"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// NewGinEngine registers the gateway middleware chain in its fixed order:
// correlation first inbound (and therefore last outbound), then metrics, access log, recovery.
func NewGinEngine(l *logger.Logger, filterOpts ...FilterOption) *gin.Engine {
	engine := gin.New()
	engine.Use(CorrelationFilter(filterOpts...), metrics.GinMiddleware(), l.GinBodyLogger(), gin.Recovery())
	return engine
}
