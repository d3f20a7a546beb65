package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code     string
	issuedAt time.Time
}

// MemoryLedger is a single-process ledger. Expiry is checked lazily on read
// against issuedAt+TTL; Sweep drops dead entries so the map does not grow.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]entry
	opts    Options
}

// NewMemoryLedger builds an in-process ledger.
func NewMemoryLedger(opts Options) *MemoryLedger {
	return &MemoryLedger{
		entries: make(map[string]entry),
		opts:    opts.withDefaults(),
	}
}

// Issue stores a fresh code for identifier, replacing any live one.
func (l *MemoryLedger) Issue(_ context.Context, identifier string) (string, error) {
	code, err := l.opts.Generator(l.opts.Length)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	l.entries[identifier] = entry{code: code, issuedAt: l.opts.Clock()}
	l.mu.Unlock()
	return code, nil
}

// Verify consumes the code for identifier when it is live and equal to candidate.
func (l *MemoryLedger) Verify(_ context.Context, identifier, candidate string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok {
		return false, nil
	}
	if l.expired(e) {
		delete(l.entries, identifier)
		return false, nil
	}
	if e.code != candidate {
		return false, nil
	}
	delete(l.entries, identifier)
	return true, nil
}

// Sweep removes expired entries and returns how many were dropped.
func (l *MemoryLedger) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, e := range l.entries {
		if l.expired(e) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, live or not yet swept.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *MemoryLedger) expired(e entry) bool {
	return !l.opts.Clock().Before(e.issuedAt.Add(l.opts.TTL))
}
