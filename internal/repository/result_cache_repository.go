package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResultCacheRepository 缓存公开结果页的响应体
type ResultCacheRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewResultCacheRepository(rdb *redis.Client, ttl time.Duration) *ResultCacheRepository {
	return &ResultCacheRepository{Redis: rdb, TTL: ttl}
}

func resultKey(token string) string {
	return fmt.Sprintf("audit:result:%s", token)
}

// Get 命中时解码到 dest 并返回 true
func (r *ResultCacheRepository) Get(ctx context.Context, token string, dest interface{}) (bool, error) {
	if r.Redis == nil {
		return false, nil
	}

	data, err := r.Redis.Get(ctx, resultKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *ResultCacheRepository) Set(ctx context.Context, token string, value interface{}) error {
	if r.Redis == nil || r.TTL <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, resultKey(token), data, r.TTL).Err()
}

func (r *ResultCacheRepository) Invalidate(ctx context.Context, token string) error {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.Del(ctx, resultKey(token)).Err()
}
