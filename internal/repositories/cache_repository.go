package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface holds serialized dictionary snapshots. Get reports a miss
// with redis.Nil.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
