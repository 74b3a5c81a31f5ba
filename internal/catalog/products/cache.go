package products

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis cache in front of the product repository.
// Document-line recomputation hits product lookups for every line missing an
// HSN code, so the hot path avoids the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a Redis client with the given TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// Get returns the cached product or nil on miss. Cache failures are treated
// as misses.
func (c *Cache) Get(ctx context.Context, id int64) *Product {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// Set stores the product, best effort.
func (c *Cache) Set(ctx context.Context, p *Product) {
	if c == nil || c.client == nil || p == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(p.ID), data, c.ttl).Err()
}

// Invalidate drops the cached product after an update.
func (c *Cache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key(id)).Err()
}
