// Package features is features-service: named on/off toggles per environment,
// checked by other services through featuregate.
package features

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecommerce-mesh/config"
	"ecommerce-mesh/internal/features/domain/feature"
	"ecommerce-mesh/internal/features/handlers"
	feature_repo "ecommerce-mesh/internal/features/repo"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/httpserver"
	"ecommerce-mesh/pkg/logger"
	"ecommerce-mesh/pkg/postgres"

	"github.com/gin-gonic/gin"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

func Run(cfg config.FeaturesConfig) {
	l := logger.New(cfg.LogLevel)
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := postgres.ApplyMigrations(cfg.PgURL, MIGRATION_FS, "migrations"); err != nil {
		l.Fatal(fmt.Errorf("features - Run - ApplyMigrations: %w", err))
	}

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("features - Run - postgres.New: %w", err))
	}
	defer pool.Close()

	featureService := feature.NewService(feature_repo.NewPgFeatureRepo(pool))

	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)
	registry := health.NewRegistry(health.NewPostgresChecker(pool.Pool))
	NewRouter(handlers.NewFeatureHandler(featureService), registry).SetUp(engine)

	l.Info("Features service started: port=%d", cfg.Port)
	if err := httpserver.New(cfg.Port, engine).Run(ctx); err != nil {
		l.Error("HTTP server error: %v", err)
	}

	l.Info("Features service stopped")
}
