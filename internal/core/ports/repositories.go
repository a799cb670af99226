package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"payflow/internal/core/domain"

	"github.com/google/uuid"
)

// ErrStaleWrite is returned by conditional updates when the stored row no
// longer matches the caller's expected state.
var ErrStaleWrite = errors.New("conditional update lost: state changed concurrently")

// ErrPoolNotFound is returned by UpdatePool for an unknown pool id.
var ErrPoolNotFound = errors.New("liquidity pool not found")

// PaymentRepository defines persistence operations for payments.
// Getters return (nil, nil) when the row does not exist.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// Update writes payment only if the stored status equals expected,
	// otherwise it returns ErrStaleWrite.
	Update(ctx context.Context, payment *domain.Payment, expected domain.PaymentStatus) error
	ListByStatusUpdatedBefore(ctx context.Context, statuses []domain.PaymentStatus, before time.Time, limit int) ([]*domain.Payment, error)
}

// PoolTx is the view of one pool handed to a LiquidityRepository.UpdatePool
// callback. Mutations to Pool() and reservations passed to PutReservation
// are committed together when the callback returns nil.
type PoolTx interface {
	Pool() *domain.LiquidityPool
	Reservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error)
	PutReservation(r *domain.LiquidityReservation)
}

// LiquidityRepository stores pools and reservations. UpdatePool is the single
// atomic check-and-update primitive: callbacks for the same pool never overlap.
type LiquidityRepository interface {
	CreatePool(ctx context.Context, pool *domain.LiquidityPool) error
	GetPool(ctx context.Context, id string) (*domain.LiquidityPool, error)
	GetPoolByCorridor(ctx context.Context, corridor string) (*domain.LiquidityPool, error)
	ListPools(ctx context.Context) ([]*domain.LiquidityPool, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error)
	ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]*domain.LiquidityReservation, error)
	CountHeldReservations(ctx context.Context, poolID string) (int, error)
	UpdatePool(ctx context.Context, poolID string, fn func(tx PoolTx) error) error
}

// FailedTaskRepository is the durable store behind the dead letter queue.
type FailedTaskRepository interface {
	Create(ctx context.Context, task *domain.FailedTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error)
	// List returns at most limit tasks, newest first.
	List(ctx context.Context, limit int) ([]*domain.FailedTask, error)
	// Update applies fn to the stored task under a row lock and persists the result.
	Update(ctx context.Context, id uuid.UUID, fn func(task *domain.FailedTask) error) (*domain.FailedTask, error)
}

// SagaAuditRepository stores the per-stage audit trail of payments.
type SagaAuditRepository interface {
	Append(ctx context.Context, entry *domain.SagaAuditEntry) error
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*domain.SagaAuditEntry, error)
}

// IdempotencyStore is the shared key-value store backing the idempotency lock.
type IdempotencyStore interface {
	// SetNX stores key only if absent. Returns true if this call created it.
	SetNX(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) (bool, error)
	// Set overwrites key unconditionally.
	Set(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Get returns (nil, nil) when the key is absent or expired.
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*domain.RateLimitResult, error)
}
