// Package cache provides a thin Redis wrapper used as a read-through cache
// for single published posts. The cache is optional: a nil *Cache is valid
// and every operation on it is a no-op miss, so the service code does not
// branch on whether Redis is configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent (or the cache is disabled).
var ErrMiss = errors.New("cache: miss")

// Cache wraps a Redis client with a fixed TTL for stored values.
type Cache struct {
	cli *redis.Client
	ttl time.Duration
}

// New creates a Cache connected to the given Redis address.
func New(addr string, db int, ttl time.Duration) *Cache {
	return &Cache{
		cli: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: ttl,
	}
}

// PostKey builds the cache key for a post id.
func PostKey(id int) string {
	return fmt.Sprintf("post:%d", id)
}

// Get returns the value stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", ErrMiss
	}
	val, err := c.cli.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

// Set stores val under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, val string) error {
	if c == nil {
		return nil
	}
	return c.cli.Set(ctx, key, val, c.ttl).Err()
}

// Del removes a key. Used to invalidate a cached post when it is updated or
// deleted.
func (c *Cache) Del(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.cli.Del(ctx, key).Err()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.cli.Close()
}
