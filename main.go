package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/handlers"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/repository"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/scheduler"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/service"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/database"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/evolution"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/redis"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/validator"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/routes"

	_ "github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/docs" // swagger docs
)

// @title ZapStatus Queue Service API
// @version 1.0
// @description WooCommerce order-status WhatsApp dispatch queue

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Evolution.APIKey == "" {
		logger.Fatalf("EVOLUTION_API_KEY is required but not set")
	}
	if cfg.Auth.AdminAPIKey == "" {
		logger.Fatalf("ADMIN_API_KEY is required but not set")
	}

	logger.Infof("Starting ZapStatus queue service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, status caching disabled: %v", err)
		redisClient = nil
	}

	// Initialize gateway client
	gatewayClient := evolution.NewClient(cfg.Evolution)
	logger.Infof("Evolution API configured: %s", gatewayClient.GetURL())

	// Initialize repositories
	queueRepo := repository.NewQueueRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)

	// Initialize service
	dispatchService := service.NewDispatchService(
		queueRepo,
		templateRepo,
		instanceRepo,
		gatewayClient,
		cfg.Dispatch,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize scheduler
	sched := scheduler.NewScheduler(dispatchService, cfg.Dispatch.PollInterval)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient)
	webhookHandler := handlers.NewWebhookHandler(dispatchService, instanceRepo)
	queueHandler := handlers.NewQueueHandler(dispatchService)
	// A typed-nil *redis.Client must not reach the handler's interface field.
	var statusCache handlers.InstanceStatusCache
	if redisClient != nil {
		statusCache = redisClient
	}
	instanceHandler := handlers.NewInstanceHandler(instanceRepo, gatewayClient, statusCache)
	schedulerHandler := handlers.NewSchedulerHandler(sched, ctx)

	// Auto-start scheduler
	if os.Getenv("AUTO_START_SCHEDULER") != "false" {
		logger.Infof("Auto-starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start scheduler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-api-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, webhookHandler, queueHandler, instanceHandler, schedulerHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal all goroutines to stop
	cancel()

	// Stop scheduler first (with timeout)
	if sched.IsRunning() {
		logger.Infof("Stopping scheduler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping scheduler: %v", err)
			} else {
				logger.Infof("Scheduler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Scheduler stop timeout, forcing shutdown")
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
