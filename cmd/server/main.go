package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nutriai/backend/internal/config"
	"github.com/nutriai/backend/internal/database"
	"github.com/nutriai/backend/internal/handlers"
	"github.com/nutriai/backend/internal/logging"
	"github.com/nutriai/backend/internal/middleware"
	"github.com/nutriai/backend/internal/repository"
	"github.com/nutriai/backend/internal/routes"
	"github.com/nutriai/backend/internal/services"
	"gorm.io/gorm"
)

func main() {
	// Optional .env for local runs; real environment wins.
	_ = godotenv.Load()

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		store        repository.Store
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.DBDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		store = repository.NewGormStore(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			logging.NewJSONHandler(os.Stdout, cfg.AppEnv),
			pgLogHandler,
		)))
		logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)
	}

	// Services
	now := services.Clock(time.Now)
	dailyLogService := services.NewDailyLogService(store, now)
	authService := services.NewAuthService(store, cfg, now)
	profileService := services.NewProfileService(store, dailyLogService, now)
	trackingService := services.NewTrackingService(store, dailyLogService, now)
	overviewService := services.NewOverviewService(store, dailyLogService, now)
	mealService := services.NewMealService(store, dailyLogService, now)
	statsService := services.NewStatsService(store, now)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(store)
	profileHandler := handlers.NewProfileHandler(profileService, trackingService, overviewService)
	mealHandler := handlers.NewMealHandler(mealService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, profileHandler, mealHandler, statsHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
