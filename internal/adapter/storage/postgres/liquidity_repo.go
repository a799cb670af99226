package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	poolColumns        = `id, from_currency, to_currency, total::text, available::text, reserved::text, status, updated_at`
	reservationColumns = `id, payment_id, pool_id, amount::text, currency, status, reserved_at, expires_at, closed_at`
)

// LiquidityRepo implements ports.LiquidityRepository. UpdatePool runs its
// callback inside a transaction holding the pool row lock (SELECT ... FOR UPDATE).
type LiquidityRepo struct {
	pool Pool
}

var _ ports.LiquidityRepository = (*LiquidityRepo)(nil)

// NewLiquidityRepo creates a new LiquidityRepo.
func NewLiquidityRepo(pool Pool) *LiquidityRepo {
	return &LiquidityRepo{pool: pool}
}

// CreatePool inserts a pool. The corridor is unique.
func (r *LiquidityRepo) CreatePool(ctx context.Context, p *domain.LiquidityPool) error {
	query := `INSERT INTO liquidity_pools (id, from_currency, to_currency, total, available, reserved, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.FromCurrency, p.ToCurrency, p.Total.String(), p.Available.String(),
		p.Reserved.String(), string(p.Status), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert liquidity pool: %w", err)
	}
	return nil
}

func (r *LiquidityRepo) GetPool(ctx context.Context, id string) (*domain.LiquidityPool, error) {
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools WHERE id = $1`
	return scanPool(r.pool.QueryRow(ctx, query, id))
}

// GetPoolByCorridor looks a pool up by its "FROM-TO" corridor key.
func (r *LiquidityRepo) GetPoolByCorridor(ctx context.Context, corridor string) (*domain.LiquidityPool, error) {
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools
		WHERE from_currency || '-' || to_currency = $1`
	return scanPool(r.pool.QueryRow(ctx, query, corridor))
}

func (r *LiquidityRepo) ListPools(ctx context.Context) ([]*domain.LiquidityPool, error) {
	query := `SELECT ` + poolColumns + ` FROM liquidity_pools ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list liquidity pools: %w", err)
	}
	defer rows.Close()

	var out []*domain.LiquidityPool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool rows: %w", err)
	}
	return out, nil
}

func (r *LiquidityRepo) GetReservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM liquidity_reservations WHERE id = $1`
	return scanReservation(r.pool.QueryRow(ctx, query, id))
}

// ListExpiredReservations returns held reservations whose expiry is at or before now.
func (r *LiquidityRepo) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]*domain.LiquidityReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM liquidity_reservations
		WHERE status = $1 AND expires_at <= $2 ORDER BY expires_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(domain.ReservationStatusReserved), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()

	var out []*domain.LiquidityReservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}
	return out, nil
}

func (r *LiquidityRepo) CountHeldReservations(ctx context.Context, poolID string) (int, error) {
	query := `SELECT COUNT(*) FROM liquidity_reservations WHERE pool_id = $1 AND status = $2`

	var n int
	if err := r.pool.QueryRow(ctx, query, poolID, string(domain.ReservationStatusReserved)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count held reservations: %w", err)
	}
	return n, nil
}

// UpdatePool locks the pool row, runs fn and, if fn succeeds, writes the pool
// and every reservation fn put, all in one transaction.
func (r *LiquidityRepo) UpdatePool(ctx context.Context, poolID string, fn func(tx ports.PoolTx) error) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin pool transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	query := `SELECT ` + poolColumns + ` FROM liquidity_pools WHERE id = $1 FOR UPDATE`
	p, err := scanPool(tx.QueryRow(ctx, query, poolID))
	if err != nil {
		return err
	}
	if p == nil {
		return ports.ErrPoolNotFound
	}

	ptx := &poolTx{tx: tx, pool: p, pending: make(map[uuid.UUID]*domain.LiquidityReservation)}
	if err = fn(ptx); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE liquidity_pools SET total = $2, available = $3, reserved = $4, status = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Total.String(), p.Available.String(), p.Reserved.String(), string(p.Status), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update liquidity pool: %w", err)
	}

	for _, id := range ptx.order {
		if err = upsertReservation(ctx, tx, ptx.pending[id]); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit pool transaction: %w", err)
	}
	return nil
}

type poolTx struct {
	tx      pgx.Tx
	pool    *domain.LiquidityPool
	pending map[uuid.UUID]*domain.LiquidityReservation
	order   []uuid.UUID
}

func (t *poolTx) Pool() *domain.LiquidityPool { return t.pool }

func (t *poolTx) Reservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error) {
	if r, ok := t.pending[id]; ok {
		return r, nil
	}
	query := `SELECT ` + reservationColumns + ` FROM liquidity_reservations WHERE id = $1 AND pool_id = $2`
	return scanReservation(t.tx.QueryRow(ctx, query, id, t.pool.ID))
}

func (t *poolTx) PutReservation(r *domain.LiquidityReservation) {
	if _, ok := t.pending[r.ID]; !ok {
		t.order = append(t.order, r.ID)
	}
	t.pending[r.ID] = r
}

func upsertReservation(ctx context.Context, tx pgx.Tx, r *domain.LiquidityReservation) error {
	query := `INSERT INTO liquidity_reservations (id, payment_id, pool_id, amount, currency, status, reserved_at, expires_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, closed_at = EXCLUDED.closed_at`

	_, err := tx.Exec(ctx, query,
		r.ID, r.PaymentID, r.PoolID, r.Amount.String(), r.Currency, string(r.Status),
		r.ReservedAt, r.ExpiresAt, r.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

func scanPool(row pgx.Row) (*domain.LiquidityPool, error) {
	var (
		p                          domain.LiquidityPool
		total, available, reserved string
		status                     string
	)
	err := row.Scan(&p.ID, &p.FromCurrency, &p.ToCurrency, &total, &available, &reserved, &status, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan liquidity pool: %w", err)
	}
	p.Status = domain.PoolStatus(status)
	if p.Total, err = parseDecimal("total", total); err != nil {
		return nil, err
	}
	if p.Available, err = parseDecimal("available", available); err != nil {
		return nil, err
	}
	if p.Reserved, err = parseDecimal("reserved", reserved); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanReservation(row pgx.Row) (*domain.LiquidityReservation, error) {
	var (
		res            domain.LiquidityReservation
		amount, status string
	)
	err := row.Scan(&res.ID, &res.PaymentID, &res.PoolID, &amount, &res.Currency, &status,
		&res.ReservedAt, &res.ExpiresAt, &res.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(status)
	if res.Amount, err = parseDecimal("amount", amount); err != nil {
		return nil, err
	}
	return &res, nil
}
