// Package user is user-service: CRUD over users, with reads and writes
// isolated in separate bulkheads.
package user

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecommerce-mesh/config"
	userdomain "ecommerce-mesh/internal/user/domain/user"
	"ecommerce-mesh/internal/user/handlers"
	user_repo "ecommerce-mesh/internal/user/repo"
	"ecommerce-mesh/pkg/bulkhead"
	"ecommerce-mesh/pkg/health"
	"ecommerce-mesh/pkg/httpserver"
	"ecommerce-mesh/pkg/logger"
	"ecommerce-mesh/pkg/postgres"

	"github.com/gin-gonic/gin"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

const (
	criticalBulkhead    = "userServiceCritical"
	nonCriticalBulkhead = "userServiceNonCritical"
)

func Run(cfg config.UserConfig) {
	l := logger.New(cfg.LogLevel)
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.Console()})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := postgres.ApplyMigrations(cfg.PgURL, MIGRATION_FS, "migrations"); err != nil {
		l.Fatal(fmt.Errorf("user - Run - ApplyMigrations: %w", err))
	}

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("user - Run - postgres.New: %w", err))
	}
	defer pool.Close()

	userService := userdomain.NewService(user_repo.NewPgUserRepo(pool))

	critical := bulkhead.New(bulkhead.Config{
		Name:          criticalBulkhead,
		MaxConcurrent: cfg.CriticalMaxConcurrent,
		MaxWait:       cfg.CriticalMaxWait,
	})
	nonCritical := bulkhead.New(bulkhead.Config{
		Name:          nonCriticalBulkhead,
		MaxConcurrent: cfg.NonCriticalMaxConcurrent,
		MaxWait:       cfg.NonCriticalMaxWait,
	})

	gin.SetMode(gin.ReleaseMode)
	engine := NewGinEngine(l)
	registry := health.NewRegistry(health.NewPostgresChecker(pool.Pool))
	NewRouter(handlers.NewUserHandler(userService), critical, nonCritical, registry).SetUp(engine)

	l.Info("User service started: port=%d", cfg.Port)
	if err := httpserver.New(cfg.Port, engine).Run(ctx); err != nil {
		l.Error("HTTP server error: %v", err)
	}

	l.Info("User service stopped")
}
