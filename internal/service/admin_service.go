package service

import (
	"context"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
)

// AdminService implements ports.AdminService on top of the saga's
// resilience components.
type AdminService struct {
	dlq       *DeadLetterQueue
	liquidity *LiquidityService
	breakers  *BreakerRegistry
}

var _ ports.AdminService = (*AdminService)(nil)

// NewAdminService creates the operator-facing service.
func NewAdminService(dlq *DeadLetterQueue, liquidity *LiquidityService, breakers *BreakerRegistry) *AdminService {
	return &AdminService{dlq: dlq, liquidity: liquidity, breakers: breakers}
}

func (s *AdminService) ListDLQ(ctx context.Context, limit int) ([]*domain.FailedTask, error) {
	return s.dlq.List(ctx, limit)
}

func (s *AdminService) RetryDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error) {
	return s.dlq.Retry(ctx, taskID)
}

// ResolveDLQ marks a task recovered after an operator reconciled it.
func (s *AdminService) ResolveDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error) {
	return s.dlq.MarkRecovered(ctx, taskID)
}

func (s *AdminService) ArchiveDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error) {
	return s.dlq.Archive(ctx, taskID)
}

func (s *AdminService) GetPoolStatus(ctx context.Context, poolID string) (*domain.PoolStatusReport, error) {
	return s.liquidity.Status(ctx, poolID)
}

func (s *AdminService) TriggerRebalanceScan(ctx context.Context) ([]domain.RebalanceReport, error) {
	return s.liquidity.ScanAndRebalance(ctx)
}

func (s *AdminService) Breakers() []domain.CircuitBreakerState {
	return s.breakers.Snapshot()
}
