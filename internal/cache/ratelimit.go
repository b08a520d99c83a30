package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitAuthPrefix is the Redis key prefix for login/register limits.
	rateLimitAuthPrefix = "ratelimit:auth:"
	// rateLimitAuthTTL is the TTL for auth rate limit keys.
	rateLimitAuthTTL = 120 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes a token bucket atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- bucket capacity
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// AuthLimiter throttles credential endpoints per client IP.
type AuthLimiter struct {
	cache         *Cache
	ratePerMinute int
	burst         int
}

// NewAuthLimiter creates a limiter allowing ratePerMinute sustained requests
// with bursts of up to burst per client IP.
func NewAuthLimiter(c *Cache, ratePerMinute, burst int) *AuthLimiter {
	return &AuthLimiter{cache: c, ratePerMinute: ratePerMinute, burst: burst}
}

// Check consumes one token for ip. Redis failures are returned to the
// caller, which decides whether to fail open.
func (l *AuthLimiter) Check(ctx context.Context, ip string) (*RateLimitResult, error) {
	if l.ratePerMinute <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(l.burst)}, nil
	}

	rate := float64(l.ratePerMinute) / 60.0
	result, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{authKey(ip)},
		rate, l.burst, time.Now().Unix(), int(rateLimitAuthTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, err
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		RetryAfter: time.Duration(result[1]) * time.Second,
		Remaining:  result[2],
	}, nil
}

func authKey(ip string) string {
	return rateLimitAuthPrefix + hashIP(ip)
}

// hashIP creates a truncated SHA256 hash of an IP address so raw addresses
// are never stored.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
