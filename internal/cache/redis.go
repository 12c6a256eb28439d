package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"example.com/agency/booking/config"
)

// Cache is a thin JSON cache over redis. When redis is disabled in the
// config or unreachable at startup the cache degrades to a no-op and
// every lookup is a miss.
type Cache struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewCache connects to redis if caching is enabled. Connection
// failures are logged and the service continues without caching.
func NewCache(cfg *config.Config) *Cache {
	if !cfg.Redis.Enabled {
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without caching")
		return &Cache{}
	}

	log.Info().Str("host", cfg.Redis.Host).Msg("Redis cache connected")
	return &Cache{
		client:  client,
		enabled: true,
		ttl:     time.Duration(cfg.Redis.TTLSeconds) * time.Second,
	}
}

// Get unmarshals the cached value for key into dest. The boolean
// reports a hit; cache errors count as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.enabled {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry invalid")
		return false
	}
	return true
}

// Set stores value under key for the configured TTL, best-effort
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.enabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Delete drops a key, best-effort
func (c *Cache) Delete(ctx context.Context, key string) {
	if !c.enabled {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache invalidation failed")
	}
}

// CatalogKey is the cache key for a reference entity listing
func CatalogKey(entity string) string {
	return "catalog:" + entity + ":list"
}
