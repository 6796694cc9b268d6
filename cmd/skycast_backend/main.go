package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	"github.com/skycastapp/skycast_backend/internal/core/services"
	"github.com/skycastapp/skycast_backend/internal/handlers"
	"github.com/skycastapp/skycast_backend/internal/middleware"
	"github.com/skycastapp/skycast_backend/internal/platform/config"
	"github.com/skycastapp/skycast_backend/internal/repositories/database/pgsql"
	"github.com/skycastapp/skycast_backend/internal/utils"
	"github.com/skycastapp/skycast_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title SkyCast Backend API
// @version 1.0
// @description Weather backend with password and Google sign-in.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, logger)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	// Best-effort background sweep of expired refresh token rows. Expired
	// rows are never returned as valid either way; this just keeps the
	// table small.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go sweepExpiredRefreshTokens(sweepCtx, cfg, repos, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using the pgx/v5 stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// sweepExpiredRefreshTokens periodically deletes expired refresh token
// rows. Idempotent; a missed tick or a failed delete only delays cleanup.
func sweepExpiredRefreshTokens(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.RefreshTokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repos.RefreshTokenRepo.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Expired refresh token sweep failed", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				logger.Info("Swept expired refresh tokens", slog.Int64("deleted", deleted))
			}
		}
	}
}
