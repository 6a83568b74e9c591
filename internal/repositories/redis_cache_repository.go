package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCacheRepository keeps every key under one namespace so the analytics entries can
// share a Redis database with other services.
type RedisCacheRepository struct {
	client    *redis.Client
	namespace string
}

func NewRedisCacheRepository(client *redis.Client, namespace string) *RedisCacheRepository {
	return &RedisCacheRepository{client: client, namespace: namespace}
}

func (r *RedisCacheRepository) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, r.key(key)).Result()
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}
