package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSON is a typed JSON cache over Redis, keyed under a fixed prefix.
// Writes and deletes are best effort: a cache failure is logged, never
// surfaced, because the store of record stays authoritative.
type JSON[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJSON creates a cache for T under prefix. A zero ttl stores keys
// without expiry.
func NewJSON[T any](client *redis.Client, prefix string, ttl time.Duration) *JSON[T] {
	return &JSON[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *JSON[T]) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get retrieves and decodes the value stored under key. Misses and decode
// failures both report false.
func (c *JSON[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set encodes value and stores it under key.
func (c *JSON[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: marshal %s: %v", c.key(key), err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		log.Printf("cache: write %s: %v", c.key(key), err)
	}
}

// Delete removes key, typically to invalidate a view after a committed
// write.
func (c *JSON[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		log.Printf("cache: delete %s: %v", c.key(key), err)
	}
}
