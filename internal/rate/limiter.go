// Package rate throttles OTP sends per identifier.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	rdb "github.com/redis/go-redis/v9"
)

// Result describes a throttle decision.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

// Limiter decides whether another hit is allowed for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// hitScript counts a hit and starts the window in one step. A key found
// without an expiry gets one too.
var hitScript = rdb.NewScript(`
local n = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if n == 1 or ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// RedisLimiter is a fixed window counter (INCR + PEXPIRE in one script).
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
}

// NewRedisLimiter builds a Redis-backed limiter.
func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, Max: int64(max), Window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := l.Prefix + strings.ReplaceAll(key, " ", "_")

	vals, err := hitScript.Run(ctx, l.Client, []string{redisKey}, l.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, vals)
	}

	return decide(vals[0], l.Max, time.Duration(vals[1])*time.Millisecond), nil
}

// MemoryLimiter keeps counters in process with go-cache expirations.
type MemoryLimiter struct {
	c      *gocache.Cache
	max    int64
	window time.Duration
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		max:    int64(max),
		window: window,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	if err := m.c.Add(key, int64(1), m.window); err == nil {
		return decide(1, m.max, m.window), nil
	}
	hits, err := m.c.IncrementInt64(key, 1)
	if err != nil {
		// window elapsed between Add and Increment
		m.c.Set(key, int64(1), m.window)
		hits = 1
	}
	retry := m.window
	if _, exp, ok := m.c.GetWithExpiration(key); ok && !exp.IsZero() {
		retry = time.Until(exp)
	}
	return decide(hits, m.max, retry), nil
}

// Unlimited never throttles.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true, Remaining: -1}, nil
}

func decide(hits, max int64, ttl time.Duration) Result {
	if max <= 0 {
		return Result{Allowed: true, Remaining: -1, CurrentHits: hits}
	}
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: hits <= max, Remaining: remaining, CurrentHits: hits}
	if !res.Allowed && ttl > 0 {
		res.RetryAfter = ttl
	}
	return res
}
