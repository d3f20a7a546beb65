package otp

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLedger(client, Options{TTL: 5 * time.Minute, Generator: sequenceGenerator()}), mr
}

func TestRedisLedger_IssueSetsTTL(t *testing.T) {
	ledger, mr := setupRedisLedger(t)

	code, err := ledger.Issue(context.Background(), "user@test.com")
	require.NoError(t, err)

	stored, err := mr.Get("otp:user@test.com")
	require.NoError(t, err)
	assert.Equal(t, code, stored)
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:user@test.com"))
}

func TestRedisLedger_WrongThenRightThenReplay(t *testing.T) {
	ctx := context.Background()
	ledger, mr := setupRedisLedger(t)

	code, err := ledger.Issue(ctx, "user@test.com")
	require.NoError(t, err)

	ok, err := ledger.Verify(ctx, "user@test.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("otp:user@test.com"))

	ok, err = ledger.Verify(ctx, "user@test.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("otp:user@test.com"))

	ok, err = ledger.Verify(ctx, "user@test.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLedger_ReissueAndExpiry(t *testing.T) {
	ctx := context.Background()
	ledger, mr := setupRedisLedger(t)

	first, _ := ledger.Issue(ctx, "+919876543210")
	second, _ := ledger.Issue(ctx, "+919876543210")

	ok, err := ledger.Verify(ctx, "+919876543210", first)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(5 * time.Minute)
	ok, err = ledger.Verify(ctx, "+919876543210", second)
	require.NoError(t, err)
	assert.False(t, ok, "expired key must not verify")
}

func TestRedisLedger_ConcurrentVerifySingleWinner(t *testing.T) {
	ctx := context.Background()
	ledger, _ := setupRedisLedger(t)

	code, err := ledger.Issue(ctx, "race@test.com")
	require.NoError(t, err)

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := ledger.Verify(ctx, "race@test.com", code); ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), wins)
}
