package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultTTL = 60 * time.Second

// RedisCache implements ports.ResponseCache on Redis with a short TTL.
// Cache failures are logged and swallowed; the read path must keep working
// when Redis is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache connects to the given address. Returns nil when addr is
// empty, which callers treat as caching disabled.
func NewRedisCache(addr, password string, logger zerolog.Logger) *RedisCache {
	if addr == "" {
		return nil
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    defaultTTL,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, v any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to decode cached payload")
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode payload for cache")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
