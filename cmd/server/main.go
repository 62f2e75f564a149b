package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/database"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
	"github.com/tadreeshq/tadrees-backend/internal/handlers"
	"github.com/tadreeshq/tadrees-backend/internal/logging"
	"github.com/tadreeshq/tadrees-backend/internal/middleware"
	"github.com/tadreeshq/tadrees-backend/internal/routes"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Exempt account allowlist: file wins over env CSV.
	policy, err := loadExemptPolicy(cfg)
	if err != nil {
		slog.Error("failed to load exempt accounts", "error", err)
		os.Exit(1)
	}
	slog.Info("exempt accounts loaded", "count", policy.Size())

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	planService := services.NewPlanService(database.DB)
	studentPlanService := services.NewStudentPlanService(database.DB)
	subscriptionService := services.NewSubscriptionService(database.DB)
	entitlementService := services.NewEntitlementService(database.DB, policy)
	contentService := services.NewContentService(database.DB, entitlementService)
	studentSubService := services.NewStudentSubscriptionService(database.DB)
	enrollmentService := services.NewEnrollmentService(database.DB, policy, studentSubService, entitlementService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(policy)
	planHandler := handlers.NewPlanHandler(planService, studentPlanService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, entitlementService)
	contentHandler := handlers.NewContentHandler(contentService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, studentSubService)
	webhookHandler := handlers.NewWebhookHandler(cfg, subscriptionService, studentSubService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, planHandler,
		subscriptionHandler, contentHandler, enrollmentHandler, webhookHandler)

	// Expiration sweeper
	sweeperDone := make(chan struct{})
	services.NewSweeper(database.DB, policy).Start(cfg.SweepInterval, sweeperDone)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(sweeperDone)
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func loadExemptPolicy(cfg *config.Config) (*exempt.Allowlist, error) {
	if cfg.ExemptConfigPath != "" {
		return exempt.LoadFromFile(cfg.ExemptConfigPath)
	}
	return exempt.ParseCSV(cfg.ExemptTeacherIDs, cfg.FreeTeacherID)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
