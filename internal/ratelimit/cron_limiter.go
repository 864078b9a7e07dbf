package ratelimit

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/nasiya/internal/config"
)

const keyCronClient = "cron:client:"

// CronLimiter throttles the externally triggered job endpoints per client.
// Without Redis every call is allowed.
type CronLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewCronLimiter(cfg config.Config, client *redis.Client) *CronLimiter {
	return &CronLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.CronRate,
		burst:  cfg.CronBurst,
	}
}

func (l *CronLimiter) Enabled() bool {
	return l != nil && l.bucket != nil && l.rate > 0 && l.burst > 0
}

func (l *CronLimiter) Allow(ctx context.Context, client string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, keyCronClient+strings.TrimSpace(client), l.rate, l.burst)
}
