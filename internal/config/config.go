package config

import (
	"os"
	"strings"
	"time"
)

// UpstreamConfig holds configuration for the remote furniture API.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds configuration for the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds configuration for the event broker.
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// StorefrontConfig is the full configuration of the storefront service.
type StorefrontConfig struct {
	Port        string
	Environment string
	LogLevel    string
	Upstream    UpstreamConfig
	Redis       RedisConfig
	Kafka       KafkaConfig

	// CartStorePath enables the file-backed local cart store when Redis
	// is not configured (single-node deployments).
	CartStorePath string
}

// AdminConfig is the full configuration of the admin dashboard service.
type AdminConfig struct {
	Port        string
	Environment string
	LogLevel    string
	Upstream    UpstreamConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	CacheTTL    time.Duration
}

// LoadStorefront loads storefront configuration from the environment.
func LoadStorefront() *StorefrontConfig {
	return &StorefrontConfig{
		Port:          getEnv("HTTP_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Upstream:      loadUpstream(),
		Redis:         loadRedis(),
		Kafka:         loadKafka("storefront"),
		CartStorePath: getEnv("CART_STORE_PATH", ""),
	}
}

// LoadAdmin loads admin dashboard configuration from the environment.
func LoadAdmin() *AdminConfig {
	return &AdminConfig{
		Port:        getEnv("HTTP_PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Upstream:    loadUpstream(),
		Redis:       loadRedis(),
		Kafka:       loadKafka("admin-dashboard"),
		CacheTTL:    getDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),
	}
}

func loadUpstream() UpstreamConfig {
	return UpstreamConfig{
		BaseURL: getEnv("API_BASE_URL", "http://localhost:8000/api"),
		Timeout: getDuration("API_TIMEOUT", 10*time.Second),
	}
}

func loadRedis() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	}
}

func loadKafka(defaultGroup string) KafkaConfig {
	return KafkaConfig{
		Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		GroupID: getEnv("KAFKA_GROUP_ID", defaultGroup),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
