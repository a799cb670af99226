package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoolStatus is the operating status of a liquidity pool.
type PoolStatus string

const (
	PoolStatusActive      PoolStatus = "active"
	PoolStatusRebalancing PoolStatus = "rebalancing"
	PoolStatusHalted      PoolStatus = "halted"
)

// LiquidityPool tracks the hot funds available to a corridor.
// Total == Available + Reserved must hold after every mutation.
type LiquidityPool struct {
	ID           string          `json:"id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Total        decimal.Decimal `json:"total"`
	Available    decimal.Decimal `json:"available"`
	Reserved     decimal.Decimal `json:"reserved"`
	Status       PoolStatus      `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Corridor returns the pool's corridor key.
func (p *LiquidityPool) Corridor() string {
	return CorridorKey(p.FromCurrency, p.ToCurrency)
}

// Utilization is Reserved / Total, or 1 for an empty pool.
func (p *LiquidityPool) Utilization() decimal.Decimal {
	return utilization(p.Reserved, p.Total)
}

// UtilizationAfter is the utilization the pool would have after reserving amount.
func (p *LiquidityPool) UtilizationAfter(amount decimal.Decimal) decimal.Decimal {
	return utilization(p.Reserved.Add(amount), p.Total)
}

// Balanced reports whether the conservation invariant holds.
func (p *LiquidityPool) Balanced() bool {
	return p.Total.Equal(p.Available.Add(p.Reserved)) && !p.Available.IsNegative() && !p.Reserved.IsNegative()
}

// Clone returns a copy of the pool.
func (p *LiquidityPool) Clone() *LiquidityPool {
	cp := *p
	return &cp
}

func utilization(reserved, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return reserved.Div(total)
}

// ReservationStatus is the lifecycle state of a liquidity reservation.
type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "reserved"
	ReservationStatusUsed     ReservationStatus = "used"
	ReservationStatusReleased ReservationStatus = "released"
	ReservationStatusExpired  ReservationStatus = "expired"
)

// LiquidityReservation is a time-bounded hold against a pool.
type LiquidityReservation struct {
	ID         uuid.UUID         `json:"id"`
	PaymentID  uuid.UUID         `json:"payment_id"`
	PoolID     string            `json:"pool_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Currency   string            `json:"currency"`
	Status     ReservationStatus `json:"status"`
	ReservedAt time.Time         `json:"reserved_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	ClosedAt   *time.Time        `json:"closed_at,omitempty"`
}

// IsHeld reports whether the reservation still counts against pool.Reserved.
func (r *LiquidityReservation) IsHeld() bool {
	return r.Status == ReservationStatusReserved
}

// Clone returns a copy of the reservation.
func (r *LiquidityReservation) Clone() *LiquidityReservation {
	cp := *r
	if r.ClosedAt != nil {
		t := *r.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

// IsExpired reports whether a held reservation has outlived its TTL.
func (r *LiquidityReservation) IsExpired(now time.Time) bool {
	return r.IsHeld() && !now.Before(r.ExpiresAt)
}

// RebalanceActionType is what the strategy recommends for a pool.
type RebalanceActionType string

const (
	RebalanceNone       RebalanceActionType = "none"
	RebalanceLimitOrder RebalanceActionType = "limit-order"
	RebalanceMarketSwap RebalanceActionType = "market-swap"
	RebalanceHalt       RebalanceActionType = "halt"
)

// RebalanceAction is a computed recommendation; it is never persisted.
type RebalanceAction struct {
	ShouldRebalance bool                `json:"should_rebalance"`
	ActionType      RebalanceActionType `json:"action_type"`
	AmountNeeded    decimal.Decimal     `json:"amount_needed"`
	Threshold       decimal.Decimal     `json:"threshold"`
	Reason          string              `json:"reason"`
}

// RiskLevel is an external risk assessment for a corridor.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAdvisory is returned by the risk advisor collaborator.
type RiskAdvisory struct {
	Level         RiskLevel `json:"level"`
	RecommendHalt bool      `json:"recommend_halt"`
	Reason        string    `json:"reason,omitempty"`
}

// PoolStatusReport is the admin view of a pool.
type PoolStatusReport struct {
	Pool               *LiquidityPool  `json:"pool"`
	Utilization        decimal.Decimal `json:"utilization"`
	Threshold          decimal.Decimal `json:"threshold"`
	Recommendation     RebalanceAction `json:"recommendation"`
	ActiveReservations int             `json:"active_reservations"`
}

// RebalanceReport summarises one rebalance scan over all pools.
type RebalanceReport struct {
	PoolID   string          `json:"pool_id"`
	Action   RebalanceAction `json:"action"`
	Executed bool            `json:"executed"`
	Credited decimal.Decimal `json:"credited"`
	Error    string          `json:"error,omitempty"`
}
