package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/punkhazard/creative-furniture/internal/admin"
	"github.com/punkhazard/creative-furniture/internal/config"
	"github.com/punkhazard/creative-furniture/kafka"
	"github.com/punkhazard/creative-furniture/pkg/logger"
	"github.com/punkhazard/creative-furniture/pkg/tracing"
)

func main() {
	cfg := config.LoadAdmin()

	serviceName := getEnv("OTEL_SERVICE_NAME", "admin-dashboard")
	logger.Init(serviceName, cfg.LogLevel, cfg.Environment == "development")

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Msg("Starting admin dashboard service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Redis for the dashboard cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Redis.Addr).
			Msg("Failed to connect to Redis, dashboard caching disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", cfg.Redis.Addr).
			Msg("Connected to Redis for dashboard caching")
	}
	cancel()

	dashboard := admin.NewCachedDashboard(
		admin.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout),
		redisClient,
		cfg.CacheTTL,
	)

	// Consume order events to keep cached dashboards fresh
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, dashboard.InvalidateOnOrder); err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", cfg.Kafka.Brokers).
			Msg("Kafka unavailable, dashboard cache will expire by TTL only")
	} else {
		defer consumer.Close()
		go func() {
			if err := consumer.Start(consumerCtx); err != nil {
				logger.Logger.Error().Err(err).Msg("Order event consumer stopped")
			}
		}()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Admin Dashboard",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	setupMiddleware(app)

	handler := admin.NewHandler(dashboard)
	handler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": "admin-dashboard"})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("🚀 Admin dashboard starting on %s", addr)

		if err := app.Listen(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down admin dashboard...")
	stopConsumer()

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Admin dashboard stopped")
}

// setupMiddleware configures global middleware
func setupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New())

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	allowOrigins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id",
		MaxAge:           86400, // 24 hours
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"statusCode": code,
		"path":       c.Path(),
		"method":     c.Method(),
		"requestId":  c.Get("X-Request-Id"),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
