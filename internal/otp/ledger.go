// Package otp holds the one-time code ledger used to prove control of an
// email address or phone number.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	DefaultTTL    = 5 * time.Minute
	DefaultLength = 6
)

// Ledger stores at most one live code per identifier.
//
// Issue overwrites any previous code for the identifier. Verify returns true
// exactly once for a live matching code and deletes it; a mismatch, a missing
// entry and an expired entry are all reported as false without mutation.
type Ledger interface {
	Issue(ctx context.Context, identifier string) (string, error)
	Verify(ctx context.Context, identifier, candidate string) (bool, error)
}

// CodeGenerator produces a numeric code of the requested length.
type CodeGenerator func(length int) (string, error)

// GenerateCode returns a uniformly random numeric string of the given length.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Options configures ledger implementations.
type Options struct {
	TTL       time.Duration
	Length    int
	Generator CodeGenerator
	Clock     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Length <= 0 {
		o.Length = DefaultLength
	}
	if o.Generator == nil {
		o.Generator = GenerateCode
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
