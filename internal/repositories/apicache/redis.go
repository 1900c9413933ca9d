package apicache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokebattle-api/internal/redis"
)

const (
	// Key pattern: pokeapi:{url}
	keyPrefix  = "pokeapi:"
	defaultTTL = 24 * time.Hour

	errKeyEmpty = "cache key cannot be empty"
)

// RedisConfig holds the configuration for the Redis cache
type RedisConfig struct {
	Client redisclient.Client
	// TTL bounds how long an upstream response is reused (defaults to 24h).
	// Redis memory policy bounds the total size.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisCache struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedis creates a Redis backed response cache
func NewRedis(cfg *RedisConfig) (Cache, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &redisCache{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

// Get returns the cached body for key
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	body, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("cache miss").WithMeta("key", key)
		}
		return nil, errors.Wrap(err, "failed to read cache entry from Redis")
	}

	return body, nil
}

// Set stores body under key with the configured TTL
func (c *redisCache) Set(ctx context.Context, key string, body []byte) error {
	if key == "" {
		return errors.InvalidArgument(errKeyEmpty)
	}

	if err := c.client.Set(ctx, keyPrefix+key, body, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store cache entry in Redis")
	}
	return nil
}
