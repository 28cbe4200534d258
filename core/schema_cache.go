package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultPartitionKeyCacheTTL is how long a Redis-backed entry survives
// before the resolver re-derives it from ReadMetadata. Partition key
// paths essentially never change for a container's lifetime, so this is
// generous.
const DefaultPartitionKeyCacheTTL = 24 * time.Hour

// DefaultPartitionKeyCachePrefix namespaces Redis keys written by
// RedisPartitionKeyCache.
const DefaultPartitionKeyCachePrefix = "cosmiqgraphql:pk:"

// memoryPartitionKeyCache is the default PartitionKeyCache: a sync.Map
// scoped to a single process, with no expiry (spec.md §5 "concurrent map
// with single-writer-per-key semantics").
type memoryPartitionKeyCache struct {
	m sync.Map
}

// NewPartitionKeyCache returns the default in-process PartitionKeyCache.
func NewPartitionKeyCache() PartitionKeyCache {
	return &memoryPartitionKeyCache{}
}

func (c *memoryPartitionKeyCache) Get(ctx context.Context, containerName string) (string, bool) {
	v, ok := c.m.Load(containerName)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *memoryPartitionKeyCache) Set(ctx context.Context, containerName, path string) error {
	c.m.Store(containerName, path)
	return nil
}

// RedisPartitionKeyCacheOption customizes RedisPartitionKeyCache.
type RedisPartitionKeyCacheOption func(*RedisPartitionKeyCache)

// WithTTL sets the TTL applied to entries written by Set. Default is
// DefaultPartitionKeyCacheTTL.
func WithTTL(ttl time.Duration) RedisPartitionKeyCacheOption {
	return func(c *RedisPartitionKeyCache) { c.ttl = ttl }
}

// WithPrefix sets the Redis key prefix. Default is
// DefaultPartitionKeyCachePrefix.
func WithPrefix(prefix string) RedisPartitionKeyCacheOption {
	return func(c *RedisPartitionKeyCache) { c.prefix = prefix }
}

// RedisPartitionKeyCache shares resolved partition-key paths across
// process replicas, grounded on the teacher framework's RedisSchemaCache
// (same get/set-with-ttl/prefix/hit-miss-stats shape, repurposed to
// partition-key lookups instead of JSON schema documents).
type RedisPartitionKeyCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits   int64
	misses int64
}

// NewRedisPartitionKeyCache builds a Redis-backed PartitionKeyCache.
func NewRedisPartitionKeyCache(client *redis.Client, opts ...RedisPartitionKeyCacheOption) *RedisPartitionKeyCache {
	c := &RedisPartitionKeyCache{
		client: client,
		ttl:    DefaultPartitionKeyCacheTTL,
		prefix: DefaultPartitionKeyCachePrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisPartitionKeyCache) key(containerName string) string {
	return fmt.Sprintf("%s%s", c.prefix, containerName)
}

func (c *RedisPartitionKeyCache) Get(ctx context.Context, containerName string) (string, bool) {
	val, err := c.client.Get(ctx, c.key(containerName)).Result()
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}
	atomic.AddInt64(&c.hits, 1)
	return val, true
}

func (c *RedisPartitionKeyCache) Set(ctx context.Context, containerName, path string) error {
	if err := c.client.Set(ctx, c.key(containerName), path, c.ttl).Err(); err != nil {
		return Wrap("partitionkeycache.set", KindServiceUnavailable, err).WithID(containerName)
	}
	return nil
}

// Stats reports cumulative hit/miss counters for monitoring.
func (c *RedisPartitionKeyCache) Stats() map[string]interface{} {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses

	stats := map[string]interface{}{
		"hits":          hits,
		"misses":        misses,
		"total_lookups": total,
	}
	if total > 0 {
		stats["hit_rate"] = float64(hits) / float64(total)
	}
	return stats
}
