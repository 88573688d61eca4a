// Package shipping is shipping-service: it turns order events into shipment
// records kept in OpenSearch.
package shipping

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/external/featureclient"
	"ecommerce-mesh/internal/external/kafka"
	"ecommerce-mesh/internal/external/opensearch"
	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/internal/shipping/consumers"
	"ecommerce-mesh/internal/shipping/domain/shipment"
	"ecommerce-mesh/internal/shipping/handlers"
	"ecommerce-mesh/pkg/featuregate"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/httpserver"
	"ecommerce-mesh/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func Run(cfg config.ShippingConfig) {
	l := logger.New(cfg.LogLevel)
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := opensearch.NewShipmentStore(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexShipments)
	if err != nil {
		l.Fatal(fmt.Errorf("shipping - Run - opensearch.NewShipmentStore: %w", err))
	}
	shipmentService := shipment.NewService(store)

	dlq := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaDLQTopic)
	defer func() { _ = dlq.Close() }()

	controller := consumers.NewOrderEventController(l, shipmentService)
	handler := messaging.WithDLQ(
		messaging.WithRetry(controller.HandleMessage, messaging.DefaultRetryConfig()),
		dlq,
	)
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaOrdersTopic, cfg.KafkaConsumerGroup)
	runner := messaging.NewRunner(l, []messaging.Worker{consumer}, handler)

	registry := health.NewRegistry(
		health.NewKafkaChecker(cfg.KafkaBrokers),
		health.NewPingChecker("opensearch", store),
	)

	var tracking []gin.HandlerFunc
	if cfg.FeaturesURL != "" {
		features := featureclient.NewHTTPClient(cfg.FeaturesURL, cfg.FeaturesTimeout)
		tracking = append(tracking, featuregate.Require(features, cfg.TrackingFeature, cfg.FeaturesEnvironment))
		registry.Add(health.NewHTTPChecker("features-service", strings.TrimSuffix(cfg.FeaturesURL, "/")+"/health/live", nil))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)
	NewRouter(handlers.NewShipmentHandler(shipmentService), registry, tracking...).SetUp(engine)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("Consuming order events: topic=%s group=%s", cfg.KafkaOrdersTopic, cfg.KafkaConsumerGroup)
		return runner.Start(gctx)
	})
	g.Go(func() error {
		l.Info("Shipping service started: port=%d", cfg.Port)
		return httpserver.New(cfg.Port, engine).Run(gctx)
	})

	if err := g.Wait(); err != nil {
		l.Error("Shipping service error: %v", err)
	}
	l.Info("Shipping service stopped")
}
