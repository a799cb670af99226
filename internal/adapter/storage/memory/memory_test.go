package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(id string, total int64) *domain.LiquidityPool {
	return &domain.LiquidityPool{
		ID:           id,
		FromCurrency: "USD",
		ToCurrency:   "NGN",
		Total:        decimal.NewFromInt(total),
		Available:    decimal.NewFromInt(total),
		Reserved:     decimal.Zero,
		Status:       domain.PoolStatusActive,
	}
}

// ==================== PaymentStore ====================

func TestPaymentStore_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewPaymentStore()
	p := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusPending, Amount: decimal.NewFromInt(10)}
	require.NoError(t, store.Create(ctx, p))

	next := p.Clone()
	next.Status = domain.PaymentStatusRouting
	require.NoError(t, store.Update(ctx, next, domain.PaymentStatusPending))

	stale := p.Clone()
	stale.Status = domain.PaymentStatusFailed
	err := store.Update(ctx, stale, domain.PaymentStatusPending)
	assert.ErrorIs(t, err, ports.ErrStaleWrite)

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRouting, got.Status)
}

func TestPaymentStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewPaymentStore()
	p := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusPending}
	require.NoError(t, store.Create(ctx, p))

	got, _ := store.GetByID(ctx, p.ID)
	got.Status = domain.PaymentStatusCompleted

	again, _ := store.GetByID(ctx, p.ID)
	assert.Equal(t, domain.PaymentStatusPending, again.Status)

	missing, err := store.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPaymentStore_ListByStatusUpdatedBefore(t *testing.T) {
	ctx := context.Background()
	store := NewPaymentStore()
	now := time.Now()

	old := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusSettling, UpdatedAt: now.Add(-time.Hour)}
	fresh := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusSettling, UpdatedAt: now}
	done := &domain.Payment{ID: uuid.New(), Status: domain.PaymentStatusCompleted, UpdatedAt: now.Add(-time.Hour)}
	for _, p := range []*domain.Payment{old, fresh, done} {
		require.NoError(t, store.Create(ctx, p))
	}

	got, err := store.ListByStatusUpdatedBefore(ctx,
		[]domain.PaymentStatus{domain.PaymentStatusSettling, domain.PaymentStatusRouting},
		now.Add(-time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, old.ID, got[0].ID)
}

// ==================== LiquidityStore ====================

func TestLiquidityStore_UpdatePoolCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(ctx, newPool("usd-ngn", 1000)))

	rid := uuid.New()
	err := store.UpdatePool(ctx, "usd-ngn", func(tx ports.PoolTx) error {
		pool := tx.Pool()
		pool.Available = pool.Available.Sub(decimal.NewFromInt(400))
		pool.Reserved = pool.Reserved.Add(decimal.NewFromInt(400))
		tx.PutReservation(&domain.LiquidityReservation{
			ID: rid, PoolID: pool.ID, Amount: decimal.NewFromInt(400),
			Status: domain.ReservationStatusReserved, ExpiresAt: time.Now().Add(time.Minute),
		})
		return nil
	})
	require.NoError(t, err)

	pool, _ := store.GetPool(ctx, "usd-ngn")
	assert.True(t, pool.Available.Equal(decimal.NewFromInt(600)))
	assert.True(t, pool.Balanced())

	r, _ := store.GetReservation(ctx, rid)
	require.NotNil(t, r)
	n, _ := store.CountHeldReservations(ctx, "usd-ngn")
	assert.Equal(t, 1, n)
}

func TestLiquidityStore_UpdatePoolDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(ctx, newPool("usd-ngn", 1000)))

	boom := errors.New("boom")
	err := store.UpdatePool(ctx, "usd-ngn", func(tx ports.PoolTx) error {
		tx.Pool().Available = decimal.Zero
		tx.PutReservation(&domain.LiquidityReservation{ID: uuid.New(), PoolID: "usd-ngn"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	pool, _ := store.GetPool(ctx, "usd-ngn")
	assert.True(t, pool.Available.Equal(decimal.NewFromInt(1000)))
	n, _ := store.CountHeldReservations(ctx, "usd-ngn")
	assert.Zero(t, n)
}

func TestLiquidityStore_UpdatePoolUnknownPool(t *testing.T) {
	store := NewLiquidityStore()
	err := store.UpdatePool(context.Background(), "nope", func(tx ports.PoolTx) error { return nil })
	assert.ErrorIs(t, err, ports.ErrPoolNotFound)
}

func TestLiquidityStore_UpdatePoolHonoursCanceledContext(t *testing.T) {
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(context.Background(), newPool("usd-ngn", 1000)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.UpdatePool(ctx, "usd-ngn", func(tx ports.PoolTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLiquidityStore_UpdatePoolSerializes(t *testing.T) {
	ctx := context.Background()
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(ctx, newPool("usd-ngn", 1000)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.UpdatePool(ctx, "usd-ngn", func(tx ports.PoolTx) error {
				pool := tx.Pool()
				pool.Available = pool.Available.Sub(decimal.NewFromInt(1))
				pool.Reserved = pool.Reserved.Add(decimal.NewFromInt(1))
				return nil
			})
		}()
	}
	wg.Wait()

	pool, _ := store.GetPool(ctx, "usd-ngn")
	assert.True(t, pool.Reserved.Equal(decimal.NewFromInt(50)))
	assert.True(t, pool.Balanced())
}

func TestLiquidityStore_CorridorUnique(t *testing.T) {
	ctx := context.Background()
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(ctx, newPool("a", 10)))
	assert.Error(t, store.CreatePool(ctx, newPool("b", 10)))

	got, err := store.GetPoolByCorridor(ctx, "USD-NGN")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestLiquidityStore_ListExpiredReservations(t *testing.T) {
	ctx := context.Background()
	store := NewLiquidityStore()
	require.NoError(t, store.CreatePool(ctx, newPool("usd-ngn", 1000)))
	now := time.Now()

	expired := &domain.LiquidityReservation{ID: uuid.New(), PoolID: "usd-ngn", Status: domain.ReservationStatusReserved, ExpiresAt: now.Add(-time.Second)}
	live := &domain.LiquidityReservation{ID: uuid.New(), PoolID: "usd-ngn", Status: domain.ReservationStatusReserved, ExpiresAt: now.Add(time.Minute)}
	closed := &domain.LiquidityReservation{ID: uuid.New(), PoolID: "usd-ngn", Status: domain.ReservationStatusReleased, ExpiresAt: now.Add(-time.Second)}
	require.NoError(t, store.UpdatePool(ctx, "usd-ngn", func(tx ports.PoolTx) error {
		tx.PutReservation(expired)
		tx.PutReservation(live)
		tx.PutReservation(closed)
		return nil
	}))

	got, err := store.ListExpiredReservations(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, expired.ID, got[0].ID)
}

// ==================== FailedTaskStore ====================

func TestFailedTaskStore_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	store := NewFailedTaskStore()
	now := time.Now()

	first := &domain.FailedTask{ID: uuid.New(), Status: domain.FailedTaskFailed, CreatedAt: now.Add(-time.Minute)}
	second := &domain.FailedTask{ID: uuid.New(), Status: domain.FailedTaskFailed, CreatedAt: now}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	list, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	updated, err := store.Update(ctx, first.ID, func(task *domain.FailedTask) error {
		task.RetryCount++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RetryCount)

	boom := errors.New("rejected")
	_, err = store.Update(ctx, first.ID, func(task *domain.FailedTask) error {
		task.RetryCount = 99
		return boom
	})
	assert.Equal(t, boom, err)
	got, _ := store.GetByID(ctx, first.ID)
	assert.Equal(t, 1, got.RetryCount)

	missing, err := store.Update(ctx, uuid.New(), func(*domain.FailedTask) error { return nil })
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

// ==================== AuditStore ====================

func TestAuditStore_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewAuditStore()
	pid := uuid.New()
	for _, stage := range []domain.SagaStage{domain.StageValidate, domain.StageRouting, domain.StageCompliance} {
		require.NoError(t, store.Append(ctx, &domain.SagaAuditEntry{ID: uuid.New(), PaymentID: pid, Stage: stage}))
	}

	got, err := store.ListByPayment(ctx, pid)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.StageValidate, got[0].Stage)
	assert.Equal(t, domain.StageCompliance, got[2].Stage)
}

// ==================== IdempotencyStore ====================

func TestIdempotencyStore_SetNXAndExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ok, err := store.SetNX(ctx, "payment:abc", domain.IdempotencyLocked, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetNX(ctx, "payment:abc", domain.IdempotencyLocked, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "payment:abc", domain.IdempotencyCompleted, time.Minute))
	rec, err := store.Get(ctx, "payment:abc")
	require.NoError(t, err)
	assert.Equal(t, domain.IdempotencyCompleted, rec.Status)

	now = now.Add(2 * time.Minute)
	rec, err = store.Get(ctx, "payment:abc")
	require.NoError(t, err)
	assert.Nil(t, rec)

	ok, _ = store.SetNX(ctx, "payment:abc", domain.IdempotencyLocked, time.Minute)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "payment:abc"))
	rec, _ = store.Get(ctx, "payment:abc")
	assert.Nil(t, rec)
}

func TestRateLimitStore_FixedWindow(t *testing.T) {
	store := NewRateLimitStore()
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := int64(1); i <= 2; i++ {
		res, err := store.Allow(ctx, "ip", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}
	res, err := store.Allow(ctx, "ip", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	other, err := store.Allow(ctx, "other", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	now = now.Add(time.Minute)
	res, err = store.Allow(ctx, "ip", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "new window resets the counter")
	assert.Equal(t, (now.Unix()/60+1)*60, res.ResetAt)

	_, err = store.Allow(ctx, "ip", 2, time.Millisecond)
	assert.Error(t, err)
}
