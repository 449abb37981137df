package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
)

const (
	catalogKey = "pagina-ml:catalog"
	catalogTTL = 5 * time.Minute
)

// CatalogCache is a redis read cache in front of the items table. A nil
// *CatalogCache is valid and means caching is disabled; every method is
// nil-safe.
type CatalogCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCatalogCache(redisURL string, logger *logger.Logger) (*CatalogCache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &CatalogCache{
		client: client,
		logger: logger,
	}, nil
}

// Get returns the cached snapshot, or ok=false on miss, disabled cache, or
// any redis/decode problem.
func (c *CatalogCache) Get(ctx context.Context) ([]models.Item, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("catalog cache read failed: %v", err)
		return nil, false
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("catalog cache holds unreadable payload, ignoring: %v", err)
		return nil, false
	}

	return items, true
}

func (c *CatalogCache) Set(ctx context.Context, items []models.Item) {
	if c == nil {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("failed to encode catalog for cache: %v", err)
		return
	}

	if err := c.client.Set(ctx, catalogKey, data, catalogTTL).Err(); err != nil {
		c.logger.Warn("catalog cache write failed: %v", err)
	}
}

// Invalidate drops the cached snapshot. Called after every successful sync.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed: %v", err)
	}
}

func (c *CatalogCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
