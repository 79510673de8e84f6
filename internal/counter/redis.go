package counter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/numera/internal/config"
)

// Redis implements Counter on a Redis instance using INCR/EXPIRE.
type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.CounterConfig) (*Redis, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("counter redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &Redis{client: client}, nil
}

func (r *Redis) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	if r == nil || r.client == nil {
		return 0, ErrUnavailable
	}
	if key == "" {
		return 0, errors.New("counter key is empty")
	}

	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return ErrUnavailable
	}
	if key == "" {
		return errors.New("counter key is empty")
	}
	if ttl <= 0 {
		return errors.New("counter ttl must be positive")
	}

	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
