package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"complaint-analytics/internal/analytics"
	"complaint-analytics/internal/repositories"
	"complaint-analytics/pkg/constants"
	apperrors "complaint-analytics/pkg/errors"
	"complaint-analytics/pkg/metrics"
	"complaint-analytics/pkg/utils"
)

type BaseService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

// NewBaseService accepts a nil cache; every lookup is then a miss.
func NewBaseService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *BaseService {
	return &BaseService{cache: cache, logger: logger}
}

// Identity reads the authenticated caller from ctx.
func (s *BaseService) Identity(ctx context.Context) (analytics.Identity, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		s.logger.Warn("caller is not authenticated", zap.Error(err))
		return analytics.Identity{}, apperrors.ErrUnauthorized
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return analytics.Identity{}, apperrors.ErrUnauthorized
	}
	return analytics.Identity{
		UserID: userID,
		Role:   constants.ParseRole(role),
		WardID: utils.GetWardIDFromCtx(ctx),
	}, nil
}

// CacheGet decodes a cached JSON value into dest.
func (s *BaseService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.RecordCacheLookup(false)
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("cache entry is not valid JSON", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(false)
		return false
	}
	metrics.RecordCacheLookup(true)
	return true
}

// CacheSet stores data as JSON. Failures are logged and otherwise ignored.
func (s *BaseService) CacheSet(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("cache value is not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, serialized, ttl); err != nil {
		s.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
