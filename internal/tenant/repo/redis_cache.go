package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	errx "github.com/steeplechat/server/internal/core/error"
	"github.com/steeplechat/server/internal/tenant"
	logx "github.com/steeplechat/server/pkg/logger"
)

// RedisConfigCache stores resolved tenant configurations in Redis so a fleet
// of instances shares one cache. Entries carry the configured TTL.
type RedisConfigCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisConfigCache(rdb redis.Cmdable, ttl time.Duration) *RedisConfigCache {
	return &RedisConfigCache{rdb: rdb, ttl: ttl}
}

func (r *RedisConfigCache) cacheKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:config", tenantID)
}

func (r *RedisConfigCache) Get(ctx context.Context, tenantID string) (*tenant.Config, bool, error) {
	key := r.cacheKey(tenantID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read tenant config from redis")
		return nil, false, errx.WrapRedis(err)
	}

	var cfg tenant.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal cached tenant config")
		return nil, false, fmt.Errorf("unmarshal tenant config: %w", err)
	}
	return &cfg, true, nil
}

func (r *RedisConfigCache) Set(ctx context.Context, tenantID string, cfg *tenant.Config) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		logx.Error().Err(err).Str("tenantID", tenantID).Msg("failed to marshal tenant config")
		return fmt.Errorf("marshal tenant config: %w", err)
	}
	key := r.cacheKey(tenantID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write tenant config to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConfigCache) Delete(ctx context.Context, tenantID string) error {
	key := r.cacheKey(tenantID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete tenant config from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ tenant.Cache = (*RedisConfigCache)(nil)
