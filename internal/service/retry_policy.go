package service

import (
	"context"
	"math"
	"time"

	"payflow/pkg/apperror"
)

// RetryPolicy is the bounded-attempt, capped exponential backoff schedule
// shared by every collaborator call site.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Backoff returns the wait before retry number attempt (0-based):
// InitialBackoff * 2^attempt, capped at MaxBackoff. Doubling stops before
// the duration would overflow.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 0; i < attempt && d > 0 && d <= math.MaxInt64/2; i++ {
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			break
		}
		d *= 2
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. Only apperror.IsRetryable errors are retried.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if !apperror.IsRetryable(lastErr) || attempt == attempts-1 {
			return lastErr
		}

		timer := time.NewTimer(p.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}
