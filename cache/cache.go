// Package cache is a typed JSON cache on top of redis.
// A Cache built with a nil client is a no-op that always misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is not cached.
var ErrMiss = errors.New("cache miss")

// ICache defines a general caching interface
type ICache[T any] interface {
	Get(ctx context.Context, field string) (*T, error)
	Set(ctx context.Context, field string, data *T) error
	Delete(ctx context.Context, field string) error
}

// Cache implements the ICache interface
type Cache[T any] struct {
	rc     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCache creates a new Cache instance. Keys are stored as prefix:field.
func NewCache[T any](rc redis.UniversalClient, prefix string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{rc: rc, prefix: prefix, ttl: ttl}
}

// Key returns the redis key of field.
func (c *Cache[T]) Key(field string) string {
	return fmt.Sprintf("%s:%s", c.prefix, field)
}

// Get retrieves a single item from cache
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if c.rc == nil {
		return nil, ErrMiss
	}
	result, err := c.rc.Get(ctx, c.Key(field)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	var row T
	if err = json.Unmarshal(result, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves a single item into cache
func (c *Cache[T]) Set(ctx context.Context, field string, data *T) error {
	if c.rc == nil {
		return nil
	}
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := c.rc.Set(ctx, c.Key(field), bytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes an item from cache
func (c *Cache[T]) Delete(ctx context.Context, field string) error {
	if c.rc == nil {
		return nil
	}
	if err := c.rc.Del(ctx, c.Key(field)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
