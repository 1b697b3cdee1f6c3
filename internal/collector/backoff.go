package collector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
)

// retryPolicy bounds transient-failure retries for one adapter session.
type retryPolicy struct {
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func defaultRetryPolicy(maxRetries int) retryPolicy {
	return retryPolicy{
		maxRetries:     maxRetries,
		initialBackoff: INITIAL_BACKOFF,
		maxBackoff:     MAX_BACKOFF,
	}
}

// retryWithBackoff runs op up to 1+maxRetries times, sleeping a jittered,
// doubling backoff between attempts. Non-retryable errors (blocked sources)
// abort immediately; context cancellation wins over any pending sleep.
func retryWithBackoff(ctx context.Context, clock clockwork.Clock, rng *rand.Rand, policy retryPolicy, logger *slog.Logger, op func() ([]byte, error)) ([]byte, error) {
	backoff := policy.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= policy.maxRetries; attempt++ {
		if attempt > 0 {
			// Jitter up to half the base backoff to spread bursts.
			delay := backoff
			if rng != nil {
				delay += time.Duration(rng.Int63n(int64(backoff)/2 + 1))
			}
			logger.Warn("[Collector] Retrying request",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", delay))

			select {
			case <-clock.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			backoff *= 2
			if backoff > policy.maxBackoff {
				backoff = policy.maxBackoff
			}
		}

		data, err := op()
		if err == nil {
			return data, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries reached: %w", lastErr)
}
