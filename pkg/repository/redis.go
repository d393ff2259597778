package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/go-redis/redis/v8"
)

const contentCacheKey = "content:all"

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return NewRedisRepositoryFromClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), cfg)
}

func NewRedisRepositoryFromClient(client *redis.Client, cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: client,
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// ContentCache stores the public site text map between writes.
type ContentCache interface {
	GetContent(ctx context.Context) (map[string]string, bool)
	SetContent(ctx context.Context, content map[string]string) error
	InvalidateContent(ctx context.Context) error
}

func (r *RedisRepository) GetContent(ctx context.Context) (map[string]string, bool) {
	var content map[string]string
	if err := r.GetJSON(ctx, contentCacheKey, &content); err != nil {
		return nil, false
	}
	return content, true
}

func (r *RedisRepository) SetContent(ctx context.Context, content map[string]string) error {
	return r.SetJSON(ctx, contentCacheKey, content, r.config.TTL)
}

func (r *RedisRepository) InvalidateContent(ctx context.Context) error {
	return r.Del(ctx, contentCacheKey)
}

type noopContentCache struct{}

// NoopContentCache is used when Redis is not configured.
func NoopContentCache() ContentCache { return noopContentCache{} }

func (noopContentCache) GetContent(context.Context) (map[string]string, bool) { return nil, false }
func (noopContentCache) SetContent(context.Context, map[string]string) error  { return nil }
func (noopContentCache) InvalidateContent(context.Context) error              { return nil }
