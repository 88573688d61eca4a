// Package order is order-service: CRUD over orders, enriched with users from
// user-service and announced on the order events topic.
package order

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/external/kafka"
	"ecommerce-mesh/internal/external/userclient"
	orderdomain "ecommerce-mesh/internal/order/domain/order"
	"ecommerce-mesh/internal/order/handlers"
	order_repo "ecommerce-mesh/internal/order/repo"
	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/httpserver"
	"ecommerce-mesh/pkg/logger"
	"ecommerce-mesh/pkg/postgres"

	"github.com/gin-gonic/gin"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

func Run(cfg config.OrderConfig) {
	l := logger.New(cfg.LogLevel)
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := postgres.ApplyMigrations(cfg.PgURL, MIGRATION_FS, "migrations"); err != nil {
		l.Fatal(fmt.Errorf("order - Run - ApplyMigrations: %w", err))
	}

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("order - Run - postgres.New: %w", err))
	}
	defer pool.Close()

	users := userclient.NewHTTPClient(userclient.HTTPClientConfig{
		BaseURL:        cfg.UserServiceURL,
		Timeout:        cfg.UserClientTimeout,
		RetryAttempts:  cfg.UserRetryAttempts,
		RetryBaseDelay: cfg.UserRetryBaseDelay,
		RetryMaxDelay:  cfg.UserRetryMaxDelay,
	})
	defer func() { _ = users.Close() }()

	registry := health.NewRegistry(
		health.NewPostgresChecker(pool.Pool),
		health.NewHTTPChecker("user-service", strings.TrimSuffix(cfg.UserServiceURL, "/")+"/health/live", nil),
	)

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		l.Info("Publishing order events: topic=%s", cfg.KafkaOrdersTopic)
		publisher = kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
		registry.Add(health.NewKafkaChecker(cfg.KafkaBrokers))
	} else {
		l.Warn("KAFKA_BROKERS not set, order events are not published")
	}
	defer func() { _ = publisher.Close() }()

	orderService := orderdomain.NewService(order_repo.NewPgOrderRepo(pool), users, publisher)

	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)
	NewRouter(handlers.NewOrderHandler(orderService), registry).SetUp(engine)

	l.Info("Order service started: port=%d", cfg.Port)
	if err := httpserver.New(cfg.Port, engine).Run(ctx); err != nil {
		l.Error("HTTP server error: %v", err)
	}

	l.Info("Order service stopped")
}
