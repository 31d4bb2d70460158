package service

import (
	"context"
	"errors"
	"time"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "clean:"

// ResultCache stores cleaned images by request key.
type ResultCache interface {
	GetCleanedImage(ctx context.Context, key string) (string, bool, error)
	SetCleanedImage(ctx context.Context, key, cleaned string) error
}

type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetCleanedImage reports ok=false on a cache miss.
func (s *RedisService) GetCleanedImage(ctx context.Context, key string) (string, bool, error) {
	data, err := s.client.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return data, true, nil
}

func (s *RedisService) SetCleanedImage(ctx context.Context, key, cleaned string) error {
	return s.client.Set(ctx, cacheKeyPrefix+key, cleaned, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
