// Package gateway is the edge service: it assigns correlation IDs and proxies
// /{service}/... requests to the configured upstreams.
package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ecommerce-mesh/config"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/httpserver"
	"ecommerce-mesh/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Run bootstraps and runs the gateway until SIGINT/SIGTERM.
func Run(cfg config.GatewayConfig) {
	l := logger.New(cfg.LogLevel)
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)

	proxy, err := NewProxy(cfg.Routes, cfg.UpstreamTimeout)
	if err != nil {
		l.Fatal(fmt.Errorf("gateway - Run - NewProxy: %w", err))
	}

	registry := health.NewRegistry()
	for _, route := range proxy.Routes() {
		l.Info("Route registered: /%s -> %s", route.Name, route.Upstream)
		registry.Add(health.NewHTTPChecker(route.Name, strings.TrimSuffix(route.Upstream.String(), "/")+"/health/live", nil))
	}

	NewRouter(proxy, registry).SetUp(engine)

	l.Info("Gateway started: port=%d", cfg.Port)
	if err := httpserver.New(cfg.Port, engine).Run(ctx); err != nil {
		l.Error("HTTP server error: %v", err)
	}

	l.Info("Gateway stopped")
}
