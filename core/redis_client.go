package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClientOptions configures the Redis connection backing the optional
// shared partition-key cache (spec.md §5).
type RedisClientOptions struct {
	RedisURL string
	Logger   Logger
}

// NewRedisClient dials Redis and verifies connectivity with a bounded
// ping before returning, mirroring the teacher framework's connect-and-
// verify pattern.
func NewRedisClient(opts RedisClientOptions) (*redis.Client, error) {
	if opts.RedisURL == "" {
		return nil, New("redis.connect", KindConfiguration, "redis URL is required")
	}

	redisOpt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, Wrap("redis.connect", KindConfiguration, err)
	}

	client := redis.NewClient(redisOpt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if opts.Logger != nil {
			opts.Logger.Error("failed to connect to redis", map[string]interface{}{
				"error": err.Error(),
				"url":   opts.RedisURL,
			})
		}
		return nil, Wrap("redis.connect", KindServiceUnavailable, fmt.Errorf("ping failed: %w", err))
	}

	if opts.Logger != nil {
		opts.Logger.Info("redis client connected", map[string]interface{}{"url": opts.RedisURL})
	}

	return client, nil
}
