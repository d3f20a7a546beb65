package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// StartOTPJanitor sweeps expired codes every interval until ctx is done.
// Lookups already treat expired codes as absent; the sweep only bounds memory.
func StartOTPJanitor(ctx context.Context, sweeper Sweeper, interval time.Duration, logger *zap.Logger) {
	if sweeper == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sweeper.Sweep(); n > 0 {
					logger.Debug("expired otp entries swept", zap.Int("count", n))
				}
			}
		}
	}()
}
