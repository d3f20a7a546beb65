package otp

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// consumeScript deletes the key only when it still holds the candidate code.
var consumeScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and current == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisLedger shares codes across service instances. Expiry is enforced by
// the key TTL and consumption by an atomic compare-and-delete script.
type RedisLedger struct {
	client *redis.Client
	opts   Options
}

// NewRedisLedger builds a Redis-backed ledger.
func NewRedisLedger(client *redis.Client, opts Options) *RedisLedger {
	return &RedisLedger{client: client, opts: opts.withDefaults()}
}

// Issue stores a fresh code for identifier, replacing any live one.
func (l *RedisLedger) Issue(ctx context.Context, identifier string) (string, error) {
	code, err := l.opts.Generator(l.opts.Length)
	if err != nil {
		return "", err
	}
	if err := l.client.Set(ctx, keyPrefix+identifier, code, l.opts.TTL).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify consumes the code for identifier when it is live and equal to candidate.
func (l *RedisLedger) Verify(ctx context.Context, identifier, candidate string) (bool, error) {
	res, err := consumeScript.Run(ctx, l.client, []string{keyPrefix + identifier}, candidate).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return res == 1, nil
}
