package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/observability"
)

const scanCount = 500

type cacheRepository struct {
	client  *redis.Client
	prefix  string
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCacheRepository создает кеш. Все ключи хранятся с префиксом "<prefix>:".
func NewCacheRepository(redis *Redis, prefix string, metrics *observability.Metrics) repository.CacheRepository {
	return &cacheRepository{
		client:  redis.Client(),
		prefix:  prefix,
		metrics: metrics,
		logger:  redis.logger,
	}
}

func (r *cacheRepository) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.ObserveCache("redis", "miss")
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.metrics.ObserveCache("redis", "hit")
	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, r.key(key), value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.metrics.ObserveCache("redis", "set")
	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.key(key)).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.metrics.ObserveCache("redis", "del")
	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// DeletePrefix удаляет ключи через SCAN, чтобы не блокировать Redis на KEYS
func (r *cacheRepository) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := r.key(prefix) + "*"
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			r.logger.Error("Failed to scan cache", zap.String("pattern", pattern), zap.Error(err))
			return deleted, fmt.Errorf("cache scan error: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				r.logger.Error("Failed to delete cache keys", zap.String("pattern", pattern), zap.Error(err))
				return deleted, fmt.Errorf("cache delete error: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("Cache cleared", zap.String("pattern", pattern), zap.Int("deleted", deleted))
	return deleted, nil
}
