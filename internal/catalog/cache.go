package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/punkhazard/creative-furniture/pkg/logger"
)

const (
	listCacheKey        = "catalog:list"
	bestSellingCacheKey = "catalog:bestselling"
	productCachePrefix  = "catalog:product:"
)

// CachedCatalog wraps the catalog client with a Redis read-through
// cache. A nil Redis client disables caching; reads still work.
type CachedCatalog struct {
	client *Client
	redis  *redis.Client
	ttl    time.Duration
}

// NewCachedCatalog creates a cached catalog with the given TTL.
func NewCachedCatalog(client *Client, redisClient *redis.Client, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalog{client: client, redis: redisClient, ttl: ttl}
}

// List returns the product list, served from cache when fresh.
func (c *CachedCatalog) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if c.lookup(ctx, listCacheKey, &products) {
		return products, nil
	}

	products, err := c.client.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, listCacheKey, products)
	return products, nil
}

// BestSelling returns the best-seller subset, served from cache when
// fresh.
func (c *CachedCatalog) BestSelling(ctx context.Context) ([]Product, error) {
	var products []Product
	if c.lookup(ctx, bestSellingCacheKey, &products) {
		return products, nil
	}

	products, err := c.client.BestSelling(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, bestSellingCacheKey, products)
	return products, nil
}

// Get returns one product, served from cache when fresh.
func (c *CachedCatalog) Get(ctx context.Context, id string) (*Product, error) {
	key := productCachePrefix + id

	var product Product
	if c.lookup(ctx, key, &product) {
		return &product, nil
	}

	fetched, err := c.client.Get(ctx, id)
	if err != nil || fetched == nil {
		return nil, err
	}
	c.store(ctx, key, fetched)
	return fetched, nil
}

func (c *CachedCatalog) lookup(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("Catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Discarding corrupt catalog cache entry")
		return false
	}
	logger.Debug(ctx).Str("key", key).Msg("Catalog cache hit")
	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, value any) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to cache catalog response")
	}
}
