package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, reference, idempotency_key, amount::text, from_currency, to_currency,
		sender, recipient, status, route, locked_rate::text, rate_locked_at, converted_amount::text,
		fees::text, reservation_id, execution_ref, settlement_ref, failure_code, failure_reason,
		created_at, updated_at, completed_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

var _ ports.PaymentRepository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a new payment.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	vals, err := paymentValues(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO payments (id, reference, idempotency_key, amount, from_currency, to_currency,
		sender, recipient, status, route, locked_rate, rate_locked_at, converted_amount,
		fees, reservation_id, execution_ref, settlement_ref, failure_code, failure_reason,
		created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	if _, err := r.pool.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by UUID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

// Update rewrites the mutable columns only while the stored status still
// equals expected.
func (r *PaymentRepo) Update(ctx context.Context, p *domain.Payment, expected domain.PaymentStatus) error {
	route, err := routeArg(p.Route)
	if err != nil {
		return err
	}
	query := `UPDATE payments SET status = $2, route = $3, locked_rate = $4, rate_locked_at = $5,
		converted_amount = $6, fees = $7, reservation_id = $8, execution_ref = $9, settlement_ref = $10,
		failure_code = $11, failure_reason = $12, updated_at = $13, completed_at = $14
		WHERE id = $1 AND status = $15`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, string(p.Status), route, nullDecimalArg(p.LockedRate), p.RateLockedAt,
		nullDecimalArg(p.ConvertedAmount), p.Fees.String(), p.ReservationID, p.ExecutionRef, p.SettlementRef,
		p.FailureCode, p.FailureReason, p.UpdatedAt, p.CompletedAt,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrStaleWrite
	}
	return nil
}

// ListByStatusUpdatedBefore returns the oldest payments in statuses whose
// last update is before the cutoff.
func (r *PaymentRepo) ListByStatusUpdatedBefore(ctx context.Context, statuses []domain.PaymentStatus, before time.Time, limit int) ([]*domain.Payment, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE status = ANY($1) AND updated_at < $2 ORDER BY updated_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, names, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale payments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return out, nil
}

func paymentValues(p *domain.Payment) ([]any, error) {
	sender, err := jsonArg(p.Sender)
	if err != nil {
		return nil, err
	}
	recipient, err := jsonArg(p.Recipient)
	if err != nil {
		return nil, err
	}
	route, err := routeArg(p.Route)
	if err != nil {
		return nil, err
	}
	return []any{
		p.ID, p.Reference, p.IdempotencyKey, p.Amount.String(), p.FromCurrency, p.ToCurrency,
		sender, recipient, string(p.Status), route, nullDecimalArg(p.LockedRate), p.RateLockedAt,
		nullDecimalArg(p.ConvertedAmount), p.Fees.String(), p.ReservationID, p.ExecutionRef,
		p.SettlementRef, p.FailureCode, p.FailureReason, p.CreatedAt, p.UpdatedAt, p.CompletedAt,
	}, nil
}

func routeArg(route *domain.Route) ([]byte, error) {
	if route == nil {
		return nil, nil
	}
	return jsonArg(route)
}

// scanPayment maps pgx.ErrNoRows to (nil, nil).
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p                        domain.Payment
		amount, fees             string
		lockedRate, converted    *string
		sender, recipient, route []byte
		status                   string
	)
	err := row.Scan(
		&p.ID, &p.Reference, &p.IdempotencyKey, &amount, &p.FromCurrency, &p.ToCurrency,
		&sender, &recipient, &status, &route, &lockedRate, &p.RateLockedAt, &converted,
		&fees, &p.ReservationID, &p.ExecutionRef, &p.SettlementRef, &p.FailureCode, &p.FailureReason,
		&p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	p.Status = domain.PaymentStatus(status)
	if p.Amount, err = parseDecimal("amount", amount); err != nil {
		return nil, err
	}
	if p.Fees, err = parseDecimal("fees", fees); err != nil {
		return nil, err
	}
	if p.LockedRate, err = parseNullDecimal("locked_rate", lockedRate); err != nil {
		return nil, err
	}
	if p.ConvertedAmount, err = parseNullDecimal("converted_amount", converted); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sender, &p.Sender); err != nil {
		return nil, fmt.Errorf("decode sender: %w", err)
	}
	if err := json.Unmarshal(recipient, &p.Recipient); err != nil {
		return nil, fmt.Errorf("decode recipient: %w", err)
	}
	if len(route) > 0 {
		p.Route = &domain.Route{}
		if err := json.Unmarshal(route, p.Route); err != nil {
			return nil, fmt.Errorf("decode route: %w", err)
		}
	}
	return &p, nil
}
