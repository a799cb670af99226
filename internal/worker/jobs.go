package worker

import (
	"context"
	"time"

	"payflow/internal/core/domain"

	"github.com/rs/zerolog"
)

// Worker names, also used as metric labels.
const (
	NameReservationSweep = "reservation_sweep"
	NameRebalanceScan    = "rebalance_scan"
	NameStaleRecovery    = "stale_recovery"
)

// ReservationSweeper releases liquidity reservations past their expiry.
type ReservationSweeper interface {
	SweepExpired(ctx context.Context, limit int) (int, error)
}

// RebalanceScanner evaluates every pool against the rebalance strategy.
type RebalanceScanner interface {
	ScanAndRebalance(ctx context.Context) ([]domain.RebalanceReport, error)
}

// StaleRecoverer fails sagas that stopped making progress.
type StaleRecoverer interface {
	RecoverStale(ctx context.Context, staleAfter time.Duration, limit int) (int, error)
}

// NewReservationSweep expires at most batch reservations per tick.
func NewReservationSweep(svc ReservationSweeper, interval time.Duration, batch int, log zerolog.Logger) *Periodic {
	return NewPeriodic(NameReservationSweep, interval, func(ctx context.Context) (int, error) {
		return svc.SweepExpired(ctx, batch)
	}, log)
}

// NewRebalanceScan runs a full pool scan per tick and counts executed actions.
func NewRebalanceScan(svc RebalanceScanner, interval time.Duration, log zerolog.Logger) *Periodic {
	return NewPeriodic(NameRebalanceScan, interval, func(ctx context.Context) (int, error) {
		reports, err := svc.ScanAndRebalance(ctx)
		executed := 0
		for _, r := range reports {
			if r.Executed {
				executed++
			}
			if r.Error != "" {
				log.Warn().Str("pool_id", r.PoolID).Str("error", r.Error).Msg("rebalance action failed")
			}
		}
		return executed, err
	}, log)
}

// NewStaleRecovery fails payments untouched for staleAfter, batch at a time.
func NewStaleRecovery(svc StaleRecoverer, interval, staleAfter time.Duration, batch int, log zerolog.Logger) *Periodic {
	return NewPeriodic(NameStaleRecovery, interval, func(ctx context.Context) (int, error) {
		return svc.RecoverStale(ctx, staleAfter, batch)
	}, log)
}
