// Package cache provides a thin JSON cache over Redis for the engine's
// snapshot query surface (spec §6). It is purely a performance layer
// over in-memory state — the core remains the single source of truth
// and never depends on the cache being present or warm.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 60 * time.Second

var errNilCache = errors.New("cache: nil QueryCache")

// QueryCache wraps a Redis client with a fixed TTL and JSON
// marshal/unmarshal, so query-surface handlers can cache the cost of
// serializing a viewport or the full terrain grid.
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQueryCache builds a QueryCache. A zero or negative ttl falls back
// to defaultTTL.
func NewQueryCache(client *redis.Client, ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &QueryCache{client: client, ttl: ttl}
}

// Ping reports whether the underlying Redis connection is reachable,
// satisfying health.Pinger.
func (c *QueryCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNilCache
	}
	return c.client.Ping(ctx).Err()
}

// Get decodes the cached value for key into dest. Returns redis.Nil if
// the key is absent, matching the underlying client's convention.
func (c *QueryCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set marshals value as JSON and stores it under key with the cache's TTL.
func (c *QueryCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Delete removes one or more keys.
func (c *QueryCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// GetOrSet returns the cached value for key if present; otherwise it
// calls loader, stores the result asynchronously, and returns it
// directly so the caller is never blocked on the cache write.
func (c *QueryCache) GetOrSet(ctx context.Context, key string, dest any, loader func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := loader()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}

	go func() {
		setCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Set(setCtx, key, value)
	}()

	return nil
}
