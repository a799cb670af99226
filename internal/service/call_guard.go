package service

import (
	"context"
	"time"

	"payflow/pkg/apperror"
)

const defaultCallTimeout = 10 * time.Second

// CallGuard runs one collaborator call under a per-dependency circuit breaker
// and a bounded deadline. A nil Breakers skips the breaker; a non-positive
// Timeout falls back to defaultCallTimeout.
type CallGuard struct {
	Breakers *BreakerRegistry
	Timeout  time.Duration
}

// Do calls fn unless the dependency's breaker is open. Errors come back
// classified; a DEP_003 rejection counts as a healthy answer.
func (g CallGuard) Do(ctx context.Context, dependency string, fn func(ctx context.Context) error) error {
	var cb *CircuitBreaker
	if g.Breakers != nil {
		cb = g.Breakers.Get(dependency)
		if !cb.Allow() {
			return apperror.ErrCircuitOpen(dependency)
		}
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(callCtx)
	if err == nil {
		if cb != nil {
			cb.RecordSuccess()
		}
		return nil
	}

	err = classify(dependency, err)
	if cb != nil {
		if apperror.HasCode(err, "DEP_003") {
			cb.RecordSuccess()
		} else {
			cb.RecordFailure()
		}
	}
	return err
}
