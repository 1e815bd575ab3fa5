package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hut-services/internal/config"
)

// pingTimeout - ожидание первого PING при подключении
const pingTimeout = 5 * time.Second

// Redis - общее подключение для кеша ответов источников и стримов воркера
type Redis struct {
	client *redis.Client
	addr   string
	logger *zap.Logger
}

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	r := &Redis{client: client, addr: addr, logger: logger.With(zap.String("redis", addr))}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.Health(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	r.logger.Info("Redis connected", zap.Int("db", cfg.DB))
	return r, nil
}

// Health - PING, используется в /health
func (r *Redis) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", r.addr, err)
	}
	return nil
}

func (r *Redis) Client() *redis.Client { return r.client }

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}
