package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration // 0 keeps entries until evicted by Redis
	KeyPrefix string
}

// RedisCache shares enrichment results between processes. Values are
// stored as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}
	return newRedisCache(client, cfg), nil
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "medquery:enrichment:"
	}
	return &RedisCache{client: client, ttl: cfg.TTL, prefix: prefix}
}

// Get returns the cached enrichment for key.
func (c *RedisCache) Get(ctx context.Context, key string) (*entities.Enrichment, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %q: %w", key, err)
	}

	var e entities.Enrichment
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return &e, true, nil
}

// Set stores value under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value *entities.Enrichment) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
