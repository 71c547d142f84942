package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/covematch/internal/config"
	"github.com/localnerve/covematch/internal/database"
	"github.com/localnerve/covematch/internal/handlers"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	_ "github.com/localnerve/covematch/docs/api" // Swagger docs
)

// @title CoveMatch API
// @version 1.0.0
// @description Intention, pool and match lifecycle service for the coves social app
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/covematch
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	batch, err := services.ParseBatchSchedule(cfg.BatchSchedule)
	if err != nil {
		log.Fatalf("Invalid BATCH_SCHEDULE %q: %v", cfg.BatchSchedule, err)
	}

	lifecycle := services.NewLifecycle(db,
		services.WithLogger(log.WithField("component", "lifecycle")),
		services.WithIntentionTTL(cfg.IntentionTTL),
		services.WithMatchTTL(cfg.MatchTTL),
		services.WithBatchSchedule(batch),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	sessions, err := services.NewAuthorizerSessions(startupCtx, cfg, fmt.Sprintf("http://localhost:%s", cfg.Port))
	cancelStartup()
	if err != nil {
		log.Fatalf("Failed to initialize Authorizer: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("covematch")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	limiter.StartCleanup(cleanupCtx, time.Minute, 10*time.Minute)

	handlers.Routes{
		Lifecycle: lifecycle,
		Sessions:  sessions,
		Limiter:   limiter,
	}.Register(app)

	// 404 handler
	app.Use(handlers.NotFound)

	// Expiry sweep
	scheduler := cron.New(cron.WithLocation(time.UTC))
	if cfg.ExpirySchedule != "" {
		if _, err := scheduler.AddFunc(cfg.ExpirySchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := lifecycle.ExpireIntentions(ctx); err != nil {
				log.WithError(err).Error("Expiry sweep failed")
			}
		}); err != nil {
			log.Fatalf("Invalid EXPIRY_SCHEDULE %q: %v", cfg.ExpirySchedule, err)
		}
		scheduler.Start()
		log.WithField("schedule", cfg.ExpirySchedule).Info("Expiry sweep scheduled")
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		<-scheduler.Stop().Done()
		_ = app.Shutdown()
	}()

	// Start server
	log.WithField("port", cfg.Port).Info("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Info("Server stopped")
}
