package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallGuard_AlwaysSetsDeadline(t *testing.T) {
	var deadline time.Time
	err := CallGuard{}.Do(context.Background(), "rates", func(ctx context.Context) error {
		var ok bool
		deadline, ok = ctx.Deadline()
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultCallTimeout), deadline, time.Second)
}

func TestCallGuard_ClassifiesAndTripsBreaker(t *testing.T) {
	breakers := NewBreakerRegistry(BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute}, nil, newTestLogger())
	guard := CallGuard{Breakers: breakers, Timeout: time.Second}
	ctx := context.Background()

	// a rejection is an answer, not an outage
	err := guard.Do(ctx, "risk_advisor", func(context.Context) error {
		return fmt.Errorf("corridor unknown: %w", ports.ErrPermanent)
	})
	assert.True(t, apperror.HasCode(err, "DEP_003"))
	assert.Equal(t, 0, breakers.Get("risk_advisor").Snapshot().FailureCount)

	for i := 0; i < 2; i++ {
		err = guard.Do(ctx, "risk_advisor", func(context.Context) error { return errors.New("connection reset") })
		assert.True(t, apperror.HasCode(err, "DEP_001"))
	}
	assert.Equal(t, domain.BreakerOpen, breakers.Get("risk_advisor").Snapshot().State)

	called := false
	err = guard.Do(ctx, "risk_advisor", func(context.Context) error {
		called = true
		return nil
	})
	assert.True(t, apperror.HasCode(err, "DEP_002"))
	assert.False(t, called)
}
