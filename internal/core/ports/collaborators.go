package ports

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

import (
	"context"
	"errors"

	"payflow/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ErrPermanent marks a collaborator failure that retrying cannot fix
// (rejected account, unsupported rail). Collaborators wrap it with %w.
// Any other collaborator error is treated as transient.
var ErrPermanent = errors.New("permanent collaborator failure")

// RouteOptimizer picks the rail for a payment.
type RouteOptimizer interface {
	SelectRoute(ctx context.Context, payment *domain.Payment) (*domain.Route, error)
}

// ComplianceEvaluator screens a payment (sanctions, AML, limits).
type ComplianceEvaluator interface {
	Evaluate(ctx context.Context, payment *domain.Payment) (*domain.ComplianceResult, error)
}

// RateSource returns an FX quote stamped with its observation time.
type RateSource interface {
	GetRate(ctx context.Context, from, to string) (*domain.RateQuote, error)
}

// ExecutionRail pays out on a mobile-money or bank rail.
type ExecutionRail interface {
	Execute(ctx context.Context, payment *domain.Payment, route *domain.Route) (*domain.ExecutionReceipt, error)
}

// SettlementRail moves value for a batch of executed payments.
type SettlementRail interface {
	Settle(ctx context.Context, batch *domain.SettlementBatch) (*domain.SettlementReceipt, error)
}

// Notifier publishes payment events. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, event *domain.PaymentEvent) error
}

// YieldManager moves funds from a yield position into a pool's hot liquidity.
// It returns the amount actually made available.
type YieldManager interface {
	Unwind(ctx context.Context, poolID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// RebalanceExecutor carries out a rebalance action and returns the credited amount.
type RebalanceExecutor interface {
	Execute(ctx context.Context, pool *domain.LiquidityPool, action domain.RebalanceAction) (decimal.Decimal, error)
}

// RiskAdvisor provides an external risk assessment for a pool's corridor.
type RiskAdvisor interface {
	Assess(ctx context.Context, pool *domain.LiquidityPool) (*domain.RiskAdvisory, error)
}
