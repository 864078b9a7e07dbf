package ratelimit

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Tokens refill continuously at rate per second up to burst. Returns
// {allowed, tokens, now_ms}; tokens is a string so fractions survive.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HMSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens), ts}
`

var (
	ErrBucketKeyEmpty      = errors.New("rate_limit_key_empty")
	ErrBucketInvalidConfig = errors.New("rate_limit_invalid_config")
	errBucketResponse      = errors.New("rate_limit_invalid_response")
)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
	}
}

func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (Result, error) {
	if key == "" {
		return Result{}, ErrBucketKeyEmpty
	}
	if rate <= 0 || burst <= 0 {
		return Result{}, ErrBucketInvalidConfig
	}

	res, err := t.script.Run(ctx, t.client, []string{key},
		rate, burst, bucketTTL(rate, burst).Milliseconds(),
	).Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) < 3 {
		return Result{}, errBucketResponse
	}

	allowed, _ := res[0].(int64)
	tokens := parseTokens(res[1])
	return NewResult(allowed == 1, tokens, rate, burst), nil
}

// NewResult derives the retry delay from the tokens left in the bucket.
func NewResult(allowed bool, tokens, rate float64, burst int) Result {
	r := Result{Allowed: allowed, Limit: burst, Remaining: int(math.Floor(tokens))}
	if !allowed && rate > 0 {
		if needed := 1.0 - tokens; needed > 0 {
			r.RetryAfter = time.Duration(needed / rate * float64(time.Second))
		}
	}
	return r
}

func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Ceil(float64(burst) / rate * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func parseTokens(v any) float64 {
	switch val := v.(type) {
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	case int64:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}
