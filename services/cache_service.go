package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores JSON-encoded aggregate summaries
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var cacheInstance Cache = NoopCache{}

// InitCache connects the Redis cache when REDIS_ADDR is configured and falls back to no caching otherwise
func InitCache(cfg *config.Config) (Cache, error) {
	if !cfg.RedisEnabled() {
		utils.GetLogger().Info("REDIS_ADDR not set, summary caching disabled")
		cacheInstance = NoopCache{}
		return cacheInstance, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	utils.GetLogger().Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	cacheInstance = NewRedisCache(client)
	return cacheInstance, nil
}

// GetCache returns the initialized cache
func GetCache() Cache {
	return cacheInstance
}

// SetCache sets the cache instance (primarily for testing)
func SetCache(cache Cache) {
	cacheInstance = cache
}

// RedisCache is a Cache backed by Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a Redis client
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads and decodes a cached value
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}
	return true, nil
}

// Set encodes and stores a value with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Delete removes cached values
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (NoopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (NoopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}
