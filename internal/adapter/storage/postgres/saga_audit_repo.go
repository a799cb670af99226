package postgres

import (
	"context"
	"fmt"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
)

// SagaAuditRepo implements ports.SagaAuditRepository. Entries are ordered by
// the seq column, which preserves append order.
type SagaAuditRepo struct {
	pool Pool
}

var _ ports.SagaAuditRepository = (*SagaAuditRepo)(nil)

// NewSagaAuditRepo creates a new SagaAuditRepo.
func NewSagaAuditRepo(pool Pool) *SagaAuditRepo {
	return &SagaAuditRepo{pool: pool}
}

// Append inserts an immutable audit entry.
func (r *SagaAuditRepo) Append(ctx context.Context, e *domain.SagaAuditEntry) error {
	query := `INSERT INTO saga_audit (id, payment_id, stage, outcome, status, latency_ms, error_code, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.PaymentID, string(e.Stage), string(e.Outcome), string(e.Status),
		e.LatencyMS, e.ErrorCode, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert saga audit entry: %w", err)
	}
	return nil
}

// ListByPayment returns the trail of a payment in append order.
func (r *SagaAuditRepo) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*domain.SagaAuditEntry, error) {
	query := `SELECT id, payment_id, stage, outcome, status, latency_ms, error_code, detail, created_at
		FROM saga_audit WHERE payment_id = $1 ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list saga audit: %w", err)
	}
	defer rows.Close()

	var entries []*domain.SagaAuditEntry
	for rows.Next() {
		var (
			e                      domain.SagaAuditEntry
			stage, outcome, status string
		)
		err := rows.Scan(&e.ID, &e.PaymentID, &stage, &outcome, &status,
			&e.LatencyMS, &e.ErrorCode, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan saga audit row: %w", err)
		}
		e.Stage = domain.SagaStage(stage)
		e.Outcome = domain.StageOutcome(outcome)
		e.Status = domain.PaymentStatus(status)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saga audit rows: %w", err)
	}
	return entries, nil
}
