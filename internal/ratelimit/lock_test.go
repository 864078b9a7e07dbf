package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludesUntilExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	locker := NewLocalLocker(func() time.Time { return now })
	ctx := context.Background()

	token, ok, err := locker.TryLock(ctx, "job:overdue_sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, "job:overdue_sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	other, ok, err := locker.TryLock(ctx, "job:hosting_reminder", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, token, other)

	now = now.Add(2 * time.Minute)
	_, ok, err = locker.TryLock(ctx, "job:overdue_sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLockerReleaseRequiresToken(t *testing.T) {
	locker := NewLocalLocker(nil)
	ctx := context.Background()

	token, ok, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(ctx, "k", "someone-else"))
	_, ok, _ = locker.TryLock(ctx, "k", time.Minute)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, "k", token))
	_, ok, _ = locker.TryLock(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestLockValidation(t *testing.T) {
	locker := NewLocalLocker(nil)
	_, _, err := locker.TryLock(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrLockKeyEmpty)
	_, _, err = locker.TryLock(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrLockTTLInvalid)
}

func TestNewLockerWithoutRedis(t *testing.T) {
	_, ok := NewLocker(nil).(*LocalLocker)
	assert.True(t, ok)
}

func TestCronLimiterWithoutRedisAllows(t *testing.T) {
	limiter := NewCronLimiter(config.Config{CronRate: 1, CronBurst: 1}, nil)
	assert.False(t, limiter.Enabled())

	res, err := limiter.Allow(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestNewResultRetryAfter(t *testing.T) {
	denied := NewResult(false, 0.5, 0.25, 5)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 2*time.Second, denied.RetryAfter)
	assert.Equal(t, 5, denied.Limit)

	allowed := NewResult(true, 3.7, 1, 5)
	assert.Equal(t, 3, allowed.Remaining)
	assert.Zero(t, allowed.RetryAfter)
}
