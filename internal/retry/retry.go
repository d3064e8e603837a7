// Package retry wraps fallible operations with a bounded re-attempt policy.
// Node start and wallet sync hit load/availability conditions on a remote
// service, so the default is a small attempt budget with a long fixed delay.
// Payment execution is never routed through this package.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// Config configures retry behavior.
type Config struct {
	MaxAttempts int           // Maximum number of attempts (including initial)
	Delay       time.Duration // Delay between attempts
	Backoff     bool          // Double the delay each attempt, with jitter
	MaxDelay    time.Duration // Backoff ceiling; ignored when Backoff is false
}

// NodeStartConfig is the policy for node connect and sync calls:
// 3 attempts with a fixed 60s pause, mirroring the feerate-estimation
// availability window of the settlement service.
func NodeStartConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       60 * time.Second,
	}
}

// BackoffConfig is the policy for cheap idempotent probes:
// 4 attempts with delays 1s, 2s, 4s plus jitter.
func BackoffConfig() Config {
	return Config{
		MaxAttempts: 4,
		Delay:       time.Second,
		Backoff:     true,
		MaxDelay:    4 * time.Second,
	}
}

// Do executes the operation, re-attempting while retryable reports true and
// attempts remain. A non-retryable error short-circuits immediately without
// consuming the remaining budget's delay. The context cancels waiting.
func Do[T any](ctx context.Context, cfg Config, retryable func(error) bool, operation func() (T, error)) (T, error) {
	var result T
	var err error

	if retryable == nil {
		retryable = IsRetryable
	}

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err = operation()
		if err == nil {
			return result, nil
		}

		if !retryable(err) {
			return result, err
		}

		// Don't delay after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			timer := time.NewTimer(delayFor(cfg, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return result, fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, err)
}

// delayFor computes the pause before the next attempt.
func delayFor(cfg Config, attempt int) time.Duration {
	if !cfg.Backoff {
		return cfg.Delay
	}

	delay := cfg.Delay * (1 << attempt) // 2^attempt * base
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	// Jitter: random duration in [delay/2, delay).
	// Cryptographic randomness is not needed for retry jitter.
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + rand.N(half) //nolint:gosec // G404: Jitter does not require cryptographic randomness
}

// IsRetryable is the default predicate: transient node failures and
// deadline expiry re-attempt, everything else propagates.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, walleterr.ErrRetryable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return false
}

// WrapRetryable marks an error as retryable.
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", walleterr.ErrRetryable, err)
}
