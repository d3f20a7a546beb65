package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(2, time.Minute)

	res, err := l.Allow(ctx, "user@test.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.Remaining)

	res, _ = l.Allow(ctx, "user@test.com")
	assert.True(t, res.Allowed)

	res, _ = l.Allow(ctx, "user@test.com")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	res, _ = l.Allow(ctx, "other@test.com")
	assert.True(t, res.Allowed, "keys are independent")
}

func TestRedisLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client, "otp-send:", 1, time.Minute)
	ctx := context.Background()

	res, err := l.Allow(ctx, "+919876543210")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(ctx, "+919876543210")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	mr.FastForward(time.Minute)
	res, err = l.Allow(ctx, "+919876543210")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "window resets after expiry")
}

func TestRedisLimiterSetsExpiryWithFirstHit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client, "otp-send:", 3, time.Minute)
	ctx := context.Background()

	_, err = l.Allow(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("otp-send:a@x.com"))

	// A counter left without an expiry is repaired on the next hit.
	mr.Set("otp-send:b@x.com", "2")
	res, err := l.Allow(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.CurrentHits)
	assert.Equal(t, time.Minute, mr.TTL("otp-send:b@x.com"))
}

func TestUnlimited(t *testing.T) {
	res, err := Unlimited{}.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
