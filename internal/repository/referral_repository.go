package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 按天的点击计数保留 90 天
const dailyClickTTL = 90 * 24 * time.Hour

// ReferralRepository 推广链接点击计数，Redis 不可用时退化为空操作
type ReferralRepository struct {
	Redis *redis.Client
}

func NewReferralRepository(rdb *redis.Client) *ReferralRepository {
	return &ReferralRepository{Redis: rdb}
}

func clicksKey(code string) string {
	return fmt.Sprintf("affiliate:%s:clicks", code)
}

func dailyClicksKey(code string, day time.Time) string {
	return fmt.Sprintf("affiliate:%s:clicks:%s", code, day.Format("20060102"))
}

func (r *ReferralRepository) RecordClick(ctx context.Context, code string, at time.Time) error {
	if r.Redis == nil {
		return nil
	}

	dayKey := dailyClicksKey(code, at)
	pipe := r.Redis.TxPipeline()
	pipe.Incr(ctx, clicksKey(code))
	pipe.Incr(ctx, dayKey)
	pipe.Expire(ctx, dayKey, dailyClickTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Clicks 返回累计点击数和指定日期的点击数
func (r *ReferralRepository) Clicks(ctx context.Context, code string, day time.Time) (int64, int64, error) {
	if r.Redis == nil {
		return 0, 0, nil
	}

	total, err := r.getCount(ctx, clicksKey(code))
	if err != nil {
		return 0, 0, err
	}
	today, err := r.getCount(ctx, dailyClicksKey(code, day))
	if err != nil {
		return 0, 0, err
	}
	return total, today, nil
}

func (r *ReferralRepository) getCount(ctx context.Context, key string) (int64, error) {
	n, err := r.Redis.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
