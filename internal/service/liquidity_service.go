package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/internal/observability"
	"payflow/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// poolRevertTimeout bounds the write that returns a pool to active after a
// rebalance attempt.
const poolRevertTimeout = 5 * time.Second

// LiquidityConfig holds the pool policy knobs.
type LiquidityConfig struct {
	MaxUtilization decimal.Decimal
	ReservationTTL time.Duration
	// StuckAfter is how long a pool may sit in rebalancing before a scan
	// returns it to active. Zero means three executor call timeouts.
	StuckAfter time.Duration
}

// LiquidityService owns reservations and rebalance bookkeeping. Every pool
// mutation goes through LiquidityRepository.UpdatePool.
type LiquidityService struct {
	repo     ports.LiquidityRepository
	strategy RebalanceStrategy
	history  *UsageHistory
	executor ports.RebalanceExecutor
	guard    CallGuard
	cfg      LiquidityConfig
	now      func() time.Time
	log      zerolog.Logger
}

// NewLiquidityService creates a LiquidityService. executor may be nil, in
// which case rebalance scans only report recommendations. Executor calls run
// under guard.
func NewLiquidityService(
	repo ports.LiquidityRepository,
	strategy RebalanceStrategy,
	history *UsageHistory,
	executor ports.RebalanceExecutor,
	guard CallGuard,
	cfg LiquidityConfig,
	log zerolog.Logger,
) *LiquidityService {
	return &LiquidityService{
		repo:     repo,
		strategy: strategy,
		history:  history,
		executor: executor,
		guard:    guard,
		cfg:      cfg,
		now:      time.Now,
		log:      log,
	}
}

// CheckAvailability reports whether pool can take a reservation of amount.
func (s *LiquidityService) CheckAvailability(pool *domain.LiquidityPool, amount decimal.Decimal) bool {
	return s.availabilityError(pool, amount) == nil
}

func (s *LiquidityService) availabilityError(pool *domain.LiquidityPool, amount decimal.Decimal) error {
	if pool.Status != domain.PoolStatusActive {
		return apperror.ErrPoolUnavailable(string(pool.Status))
	}
	if pool.Available.LessThan(amount) {
		return apperror.ErrInsufficientLiquidity()
	}
	if pool.UtilizationAfter(amount).GreaterThan(s.cfg.MaxUtilization) {
		return apperror.ErrInsufficientLiquidity()
	}
	return nil
}

// Shortfall returns how much must be credited to pool before amount passes
// both the balance and the utilization checks.
func (s *LiquidityService) Shortfall(pool *domain.LiquidityPool, amount decimal.Decimal) decimal.Decimal {
	need := amount.Sub(pool.Available)
	if s.cfg.MaxUtilization.IsPositive() {
		byUtilization := pool.Reserved.Add(amount).Div(s.cfg.MaxUtilization).Sub(pool.Total).RoundUp(8)
		need = decimal.Max(need, byUtilization)
	}
	if need.IsNegative() {
		return decimal.Zero
	}
	return need
}

// PoolForCorridor returns the pool serving corridor.
func (s *LiquidityService) PoolForCorridor(ctx context.Context, corridor string) (*domain.LiquidityPool, error) {
	pool, err := s.repo.GetPoolByCorridor(ctx, corridor)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("loading pool for %s: %w", corridor, err))
	}
	if pool == nil {
		return nil, apperror.ErrPoolNotFound()
	}
	return pool, nil
}

// Reserve places a hold of amount on the pool for paymentID. The availability
// check and the counter update happen in one UpdatePool callback.
func (s *LiquidityService) Reserve(ctx context.Context, poolID string, paymentID uuid.UUID, amount decimal.Decimal, currency string) (*domain.LiquidityReservation, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrValidation("reservation amount must be positive")
	}

	var reservation *domain.LiquidityReservation
	err := s.repo.UpdatePool(ctx, poolID, func(tx ports.PoolTx) error {
		pool := tx.Pool()
		if err := s.availabilityError(pool, amount); err != nil {
			return err
		}

		now := s.now()
		pool.Available = pool.Available.Sub(amount)
		pool.Reserved = pool.Reserved.Add(amount)
		pool.UpdatedAt = now

		reservation = &domain.LiquidityReservation{
			ID:         uuid.New(),
			PaymentID:  paymentID,
			PoolID:     pool.ID,
			Amount:     amount,
			Currency:   currency,
			Status:     domain.ReservationStatusReserved,
			ReservedAt: now,
			ExpiresAt:  now.Add(s.cfg.ReservationTTL),
		}
		tx.PutReservation(reservation)
		observability.SetPoolBalances(pool)
		return nil
	})
	if err != nil {
		return nil, poolError(err)
	}

	observability.IncrementReservationEvent("reserved")
	s.log.Info().
		Str("pool_id", poolID).
		Str("payment_id", paymentID.String()).
		Str("reservation_id", reservation.ID.String()).
		Str("amount", amount.String()).
		Msg("liquidity reserved")
	return reservation, nil
}

// Release returns a held reservation to the pool. Releasing a reservation
// that is no longer held is a no-op.
func (s *LiquidityService) Release(ctx context.Context, reservationID uuid.UUID) error {
	return s.closeReservation(ctx, reservationID, domain.ReservationStatusReleased, false)
}

// Use consumes a held reservation: the funds have left the pool, so both
// reserved and total shrink. Using an already used reservation is a no-op;
// a released or expired one is an error.
func (s *LiquidityService) Use(ctx context.Context, reservationID uuid.UUID) error {
	return s.closeReservation(ctx, reservationID, domain.ReservationStatusUsed, false)
}

// IsHeld reports whether the reservation still holds funds.
func (s *LiquidityService) IsHeld(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	r, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("loading reservation: %w", err))
	}
	return r != nil && r.IsHeld(), nil
}

func (s *LiquidityService) closeReservation(ctx context.Context, reservationID uuid.UUID, to domain.ReservationStatus, onlyExpired bool) error {
	r, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("loading reservation: %w", err))
	}
	if r == nil {
		return apperror.ErrReservationNotFound()
	}

	changed := false
	err = s.repo.UpdatePool(ctx, r.PoolID, func(tx ports.PoolTx) error {
		current, err := tx.Reservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.ErrReservationNotFound()
		}
		now := s.now()

		if !current.IsHeld() {
			if to == domain.ReservationStatusUsed && current.Status != domain.ReservationStatusUsed {
				return apperror.ErrReservationNotHeld(string(current.Status))
			}
			return nil
		}
		if onlyExpired && !current.IsExpired(now) {
			return nil
		}

		pool := tx.Pool()
		pool.Reserved = pool.Reserved.Sub(current.Amount)
		switch to {
		case domain.ReservationStatusUsed:
			pool.Total = pool.Total.Sub(current.Amount)
		default:
			pool.Available = pool.Available.Add(current.Amount)
		}
		pool.UpdatedAt = now

		current.Status = to
		current.ClosedAt = &now
		tx.PutReservation(current)
		observability.SetPoolBalances(pool)
		changed = true
		return nil
	})
	if err != nil {
		return poolError(err)
	}

	if changed {
		observability.IncrementReservationEvent(string(to))
		s.log.Info().
			Str("pool_id", r.PoolID).
			Str("payment_id", r.PaymentID.String()).
			Str("reservation_id", reservationID.String()).
			Str("status", string(to)).
			Msg("liquidity reservation closed")
	}
	return nil
}

// SweepExpired expires held reservations past their TTL and returns how many
// were released back to their pools.
func (s *LiquidityService) SweepExpired(ctx context.Context, limit int) (int, error) {
	expired, err := s.repo.ListExpiredReservations(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("listing expired reservations: %w", err)
	}

	swept := 0
	for _, r := range expired {
		held, err := s.IsHeld(ctx, r.ID)
		if err != nil {
			return swept, err
		}
		if !held {
			continue
		}
		if err := s.closeReservation(ctx, r.ID, domain.ReservationStatusExpired, true); err != nil {
			s.log.Error().Err(err).Str("reservation_id", r.ID.String()).Msg("failed to expire reservation")
			continue
		}
		swept++
	}
	return swept, nil
}

// Credit adds newly available funds to a pool, e.g. after a yield unwind.
func (s *LiquidityService) Credit(ctx context.Context, poolID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}
	err := s.repo.UpdatePool(ctx, poolID, func(tx ports.PoolTx) error {
		pool := tx.Pool()
		pool.Total = pool.Total.Add(amount)
		pool.Available = pool.Available.Add(amount)
		pool.UpdatedAt = s.now()
		observability.SetPoolBalances(pool)
		return nil
	})
	if err != nil {
		return poolError(err)
	}
	return nil
}

// RecordUsage feeds a settled volume into the strategy's history.
func (s *LiquidityService) RecordUsage(poolID string, volume decimal.Decimal) {
	s.history.Record(poolID, volume)
}

// Status builds the admin report for a pool.
func (s *LiquidityService) Status(ctx context.Context, poolID string) (*domain.PoolStatusReport, error) {
	pool, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("loading pool: %w", err))
	}
	if pool == nil {
		return nil, apperror.ErrPoolNotFound()
	}
	held, err := s.repo.CountHeldReservations(ctx, poolID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("counting reservations: %w", err))
	}

	action := s.strategy.Evaluate(ctx, pool, pool.Available)
	return &domain.PoolStatusReport{
		Pool:               pool,
		Utilization:        pool.Utilization(),
		Threshold:          action.Threshold,
		Recommendation:     action,
		ActiveReservations: held,
	}, nil
}

// Rebalance evaluates one pool and, when warranted, runs the external
// executor outside the pool's critical section. The pool returns to active
// whether the executor succeeded or not, and even if ctx is canceled
// meanwhile. A pool left in rebalancing longer than StuckAfter is returned
// to active before evaluation.
func (s *LiquidityService) Rebalance(ctx context.Context, poolID string) (domain.RebalanceReport, error) {
	report := domain.RebalanceReport{PoolID: poolID, Credited: decimal.Zero}

	pool, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return report, apperror.InternalError(fmt.Errorf("loading pool: %w", err))
	}
	if pool == nil {
		return report, apperror.ErrPoolNotFound()
	}
	if pool.Status == domain.PoolStatusRebalancing {
		if pool, err = s.recoverStuck(ctx, pool); err != nil {
			return report, err
		}
	}

	action := s.strategy.Evaluate(ctx, pool, pool.Available)
	report.Action = action

	if action.ActionType == domain.RebalanceHalt {
		observability.IncrementRebalance(action.ActionType, "alert")
		s.log.Warn().Str("pool_id", poolID).Str("reason", action.Reason).Msg("rebalance halted by risk advisory")
		return report, nil
	}
	if !action.ShouldRebalance || s.executor == nil || pool.Status != domain.PoolStatusActive {
		return report, nil
	}

	err = s.repo.UpdatePool(ctx, poolID, func(tx ports.PoolTx) error {
		p := tx.Pool()
		if p.Status != domain.PoolStatusActive {
			return apperror.ErrPoolUnavailable(string(p.Status))
		}
		p.Status = domain.PoolStatusRebalancing
		p.UpdatedAt = s.now()
		pool = p.Clone()
		return nil
	})
	if err != nil {
		if apperror.HasCode(err, "LIQ_003") {
			return report, nil
		}
		return report, poolError(err)
	}

	credited := decimal.Zero
	execErr := s.guard.Do(ctx, DepRebalanceExecutor, func(ctx context.Context) error {
		var err error
		credited, err = s.executor.Execute(ctx, pool, action)
		return err
	})
	if execErr != nil {
		credited = decimal.Zero
	}

	revertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), poolRevertTimeout)
	defer cancel()
	err = s.repo.UpdatePool(revertCtx, poolID, func(tx ports.PoolTx) error {
		p := tx.Pool()
		if credited.IsPositive() {
			p.Total = p.Total.Add(credited)
			p.Available = p.Available.Add(credited)
		}
		p.Status = domain.PoolStatusActive
		p.UpdatedAt = s.now()
		observability.SetPoolBalances(p)
		return nil
	})
	if err != nil {
		observability.IncrementRebalance(action.ActionType, "revert_failed")
		s.log.Error().Err(err).
			Str("pool_id", poolID).
			Str("credited", credited.String()).
			AnErr("execute_error", execErr).
			Msg("pool left in rebalancing; a later scan returns it to active, reconcile any credit by hand")
		return report, poolError(err)
	}

	if execErr != nil {
		observability.IncrementRebalance(action.ActionType, "failed")
		report.Error = execErr.Error()
		s.log.Error().Err(execErr).Str("pool_id", poolID).Str("action", string(action.ActionType)).Msg("rebalance execution failed")
		return report, nil
	}

	observability.IncrementRebalance(action.ActionType, "executed")
	report.Executed = true
	report.Credited = credited
	s.log.Info().
		Str("pool_id", poolID).
		Str("action", string(action.ActionType)).
		Str("credited", credited.String()).
		Msg("pool rebalanced")
	return report, nil
}

// recoverStuck returns a pool to active once it has been rebalancing for
// longer than StuckAfter. A younger pool is returned unchanged.
func (s *LiquidityService) recoverStuck(ctx context.Context, pool *domain.LiquidityPool) (*domain.LiquidityPool, error) {
	if s.now().Sub(pool.UpdatedAt) < s.stuckAfter() {
		return pool, nil
	}

	var recovered *domain.LiquidityPool
	err := s.repo.UpdatePool(ctx, pool.ID, func(tx ports.PoolTx) error {
		p := tx.Pool()
		if p.Status == domain.PoolStatusRebalancing && p.UpdatedAt.Equal(pool.UpdatedAt) {
			p.Status = domain.PoolStatusActive
			p.UpdatedAt = s.now()
		}
		recovered = p.Clone()
		return nil
	})
	if err != nil {
		return nil, poolError(err)
	}
	if recovered.Status == domain.PoolStatusActive {
		s.log.Warn().
			Str("pool_id", pool.ID).
			Time("rebalancing_since", pool.UpdatedAt).
			Msg("pool stuck in rebalancing returned to active")
	}
	return recovered, nil
}

func (s *LiquidityService) stuckAfter() time.Duration {
	if s.cfg.StuckAfter > 0 {
		return s.cfg.StuckAfter
	}
	timeout := s.guard.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return 3 * timeout
}

// ScanAndRebalance runs Rebalance over every pool.
func (s *LiquidityService) ScanAndRebalance(ctx context.Context) ([]domain.RebalanceReport, error) {
	pools, err := s.repo.ListPools(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("listing pools: %w", err))
	}

	reports := make([]domain.RebalanceReport, 0, len(pools))
	for _, p := range pools {
		report, err := s.Rebalance(ctx, p.ID)
		if err != nil {
			report.Error = err.Error()
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// poolError keeps taxonomy errors and wraps everything else as SYS_001.
func poolError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, ports.ErrPoolNotFound) {
		return apperror.ErrPoolNotFound()
	}
	return apperror.InternalError(fmt.Errorf("updating pool: %w", err))
}
