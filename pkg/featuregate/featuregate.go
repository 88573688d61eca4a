// Package featuregate guards gin routes with feature toggles.
package featuregate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Checker answers whether a toggle is on in an environment.
type Checker interface {
	IsEnabled(ctx context.Context, name, environment string) (bool, error)
}

// Require lets requests through only while feature is enabled in environment.
// A disabled feature answers 404 as if the route did not exist. A failed
// lookup answers 503; the gate never opens on error.
func Require(checker Checker, feature, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		enabled, err := checker.IsEnabled(ctx, feature, environment)
		if err != nil {
			metrics.FeatureChecks.WithLabelValues(feature, "error").Inc()
			slog.WarnContext(ctx, "Feature check failed",
				"feature", feature,
				"environment", environment,
				slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "feature check unavailable"})
			return
		}
		if !enabled {
			metrics.FeatureChecks.WithLabelValues(feature, "disabled").Inc()
			slog.WarnContext(ctx, "Feature disabled", "feature", feature, "environment", environment)
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message": fmt.Sprintf("feature '%s' is not enabled", feature),
			})
			return
		}

		metrics.FeatureChecks.WithLabelValues(feature, "enabled").Inc()
		c.Next()
	}
}
