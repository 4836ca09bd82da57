package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/punkhazard/creative-furniture/internal/auth"
	"github.com/punkhazard/creative-furniture/internal/cart"
	"github.com/punkhazard/creative-furniture/internal/cart/local"
	"github.com/punkhazard/creative-furniture/internal/cart/reconciler"
	"github.com/punkhazard/creative-furniture/internal/cart/remote"
	"github.com/punkhazard/creative-furniture/internal/catalog"
	"github.com/punkhazard/creative-furniture/internal/checkout"
	"github.com/punkhazard/creative-furniture/internal/config"
	"github.com/punkhazard/creative-furniture/internal/session"
	"github.com/punkhazard/creative-furniture/kafka"
	"github.com/punkhazard/creative-furniture/pkg/logger"
	"github.com/punkhazard/creative-furniture/pkg/tracing"
)

func main() {
	cfg := config.LoadStorefront()

	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront")
	logger.Init(serviceName, cfg.LogLevel, cfg.Environment == "development")

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Msg("Starting storefront service")

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

	// Pick the local cart backend: Redis when reachable, otherwise the
	// file store, otherwise in-memory.
	redisClient := connectRedis(cfg.Redis)
	backend := chooseBackend(redisClient, cfg.CartStorePath)

	// Upstream clients
	remoteCart := remote.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	authClient := auth.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	catalogClient := catalog.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	checkoutClient := checkout.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	sessions := reconciler.NewManager(backend, remoteCart)

	// Kafka publisher for order events (optional)
	var publisher *kafka.Publisher
	if p, err := kafka.NewPublisher(cfg.Kafka.Brokers); err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", cfg.Kafka.Brokers).
			Msg("Kafka unavailable, order events disabled")
	} else {
		publisher = p
		defer publisher.Close()
	}

	// Handlers
	cartHandler, err := cart.InitializeHandler(sessions)
	if err != nil {
		log.Fatalf("Failed to initialize cart handler: %v", err)
	}
	authHandler := auth.NewHandler(authClient, sessions)
	catalogHandler := catalog.NewHandler(catalog.NewCachedCatalog(catalogClient, redisClient, 5*time.Minute))
	checkoutHandler := checkout.NewHandler(checkout.NewService(sessions, checkoutClient, publisher))

	// Router
	router := mux.NewRouter()
	cartHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"storefront"}`))
	}).Methods("GET")

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(session.Middleware(router))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Storefront starting on port %s", cfg.Port)
		log.Printf("📊 Prometheus metrics: http://localhost:%s/metrics", cfg.Port)
		log.Printf("🛒 Cart endpoints: /api/cart, /api/cart/items, /api/cart/merge")
		log.Printf("🔐 Auth endpoints: /api/auth/login, /api/auth/logout")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

func connectRedis(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Addr).
			Msg("Failed to connect to Redis")
		return nil
	}

	logger.Logger.Info().
		Str("redis_addr", cfg.Addr).
		Msg("Connected to Redis")
	return client
}

func chooseBackend(redisClient *redis.Client, storePath string) local.Backend {
	if redisClient != nil {
		return local.NewRedisBackend(redisClient)
	}
	if storePath != "" {
		backend, err := local.NewFileBackend(storePath)
		if err != nil {
			log.Fatalf("Failed to open cart store at %s: %v", storePath, err)
		}
		logger.Logger.Info().
			Str("path", storePath).
			Msg("Using file-backed cart store")
		return backend
	}
	logger.Logger.Warn().Msg("No Redis or cart store path configured, carts will not survive restarts")
	return local.NewMemoryBackend()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
