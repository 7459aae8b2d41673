package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implementează domain.Cache prin Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedis creează cache-ul.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Set scrie o valoare cu TTL.
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	return c.client.Set(context.Background(), key, value, ttl).Err()
}

// Get citește o valoare.
func (c *RedisCache) Get(key string) ([]byte, error) {
	return c.client.Get(context.Background(), key).Bytes()
}
