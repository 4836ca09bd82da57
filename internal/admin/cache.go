package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/punkhazard/creative-furniture/kafka"
	"github.com/punkhazard/creative-furniture/pkg/logger"
)

const cachePrefix = "dashboard:"

// CachedDashboard wraps the dashboard client with a Redis cache.
type CachedDashboard struct {
	client *Client
	redis  *redis.Client
	ttl    time.Duration
}

// NewCachedDashboard creates a cached dashboard. A nil redis client
// disables caching.
func NewCachedDashboard(client *Client, redisClient *redis.Client, ttl time.Duration) *CachedDashboard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedDashboard{client: client, redis: redisClient, ttl: ttl}
}

// DashboardMetrics returns the full dashboard payload, from cache when
// fresh.
func (c *CachedDashboard) DashboardMetrics(ctx context.Context, token string, query MetricsQuery) (json.RawMessage, error) {
	query = query.normalize()
	key := fmt.Sprintf("%smetrics:%s:%d:%d:%d", cachePrefix, query.TimePeriod, query.OrdersPage, query.ProductsPage, query.PageSize)

	if payload, ok := c.lookup(ctx, key); ok {
		return payload, nil
	}

	payload, err := c.client.DashboardMetrics(ctx, token, query)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, payload)
	return payload, nil
}

// Metric returns a single metric series, from cache when fresh.
func (c *CachedDashboard) Metric(ctx context.Context, token, metricType, timePeriod string) (json.RawMessage, error) {
	if timePeriod == "" {
		timePeriod = "weekly"
	}
	key := fmt.Sprintf("%smetric:%s:%s", cachePrefix, metricType, timePeriod)

	if payload, ok := c.lookup(ctx, key); ok {
		return payload, nil
	}

	payload, err := c.client.Metric(ctx, token, metricType, timePeriod)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, payload)
	return payload, nil
}

// Invalidate drops every cached dashboard entry.
func (c *CachedDashboard) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}

	iter := c.redis.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan dashboard cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete dashboard cache keys: %w", err)
	}

	logger.Debug(ctx).
		Int("keys", len(keys)).
		Msg("Invalidated dashboard cache")
	return nil
}

// InvalidateOnOrder is the consumer callback that drops the cache when
// an order lands.
func (c *CachedDashboard) InvalidateOnOrder(ctx context.Context, event kafka.OrderPlacedEvent) error {
	logger.Info(ctx).
		Str("order_id", event.OrderID).
		Float64("total_price", event.TotalPrice).
		Msg("Order placed, refreshing dashboard cache")
	return c.Invalidate(ctx)
}

func (c *CachedDashboard) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	if c.redis == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("Dashboard cache lookup failed")
		}
		return nil, false
	}
	return json.RawMessage(raw), true
}

func (c *CachedDashboard) store(ctx context.Context, key string, payload json.RawMessage) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Set(ctx, key, []byte(payload), c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Dashboard cache store failed")
	}
}
