package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"payflow/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{40, time.Second},
		{-1, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicy_BackoffDoesNotOverflow(t *testing.T) {
	capped := RetryPolicy{InitialBackoff: 10 * time.Second, MaxBackoff: time.Hour}
	assert.Equal(t, time.Hour, capped.Backoff(30))
	assert.Equal(t, time.Hour, capped.Backoff(1000))

	uncapped := RetryPolicy{InitialBackoff: 10 * time.Second}
	for _, attempt := range []int{30, 62, 64, 1000} {
		assert.Positive(t, uncapped.Backoff(attempt), "attempt %d", attempt)
	}
	assert.Equal(t, time.Duration(0), RetryPolicy{}.Backoff(1<<20))
}

func TestRetryPolicy_RetriesOnlyRetryable(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 4, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return apperror.ErrValidation("bad")
	})
	assert.True(t, apperror.HasCode(err, "VAL_001"))
	assert.Equal(t, 1, calls)

	calls = 0
	err = p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return apperror.ErrDependencyUnavailable("rate_source", errors.New("timeout"))
	})
	assert.True(t, apperror.HasCode(err, "DEP_001"))
	assert.Equal(t, 4, calls)
}

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

	var seen []int
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		if attempt < 2 {
			return apperror.ErrCircuitOpen("router")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestRetryPolicy_StopsWhenContextDone(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 10, InitialBackoff: time.Hour, MaxBackoff: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
		calls++
		return apperror.ErrDependencyUnavailable("settlement_rail", errors.New("down"))
	})
	assert.True(t, apperror.HasCode(err, "DEP_001"))
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = RetryPolicy{}.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return apperror.ErrDependencyUnavailable("x", errors.New("y"))
	})
	assert.Equal(t, 1, calls)
}
