package service

import (
	"context"
	"fmt"
	"sync"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Strategy names accepted by NewRebalanceStrategy.
const (
	StrategyPlain     = "plain"
	StrategyRiskAware = "risk_aware"
)

var two = decimal.NewFromInt(2)

// riskMultipliers scale the plain threshold. Values are never below 1.
var riskMultipliers = map[domain.RiskLevel]decimal.Decimal{
	domain.RiskLow:    decimal.NewFromInt(1),
	domain.RiskMedium: decimal.RequireFromString("1.2"),
	domain.RiskHigh:   decimal.RequireFromString("1.5"),
}

// UsageHistory is a bounded rolling window of settled volumes per pool.
type UsageHistory struct {
	mu      sync.Mutex
	window  int
	samples map[string][]decimal.Decimal
}

// NewUsageHistory keeps the last window samples per pool.
func NewUsageHistory(window int) *UsageHistory {
	if window <= 0 {
		window = 100
	}
	return &UsageHistory{window: window, samples: make(map[string][]decimal.Decimal)}
}

// Record appends a volume sample, evicting the oldest when full.
func (h *UsageHistory) Record(poolID string, volume decimal.Decimal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := append(h.samples[poolID], volume)
	if len(s) > h.window {
		s = s[len(s)-h.window:]
	}
	h.samples[poolID] = s
}

// Mean returns the average of the pool's samples, zero when empty.
func (h *UsageHistory) Mean(poolID string) decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.samples[poolID]
	if len(s) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(s[0], s[1:]...).Div(decimal.NewFromInt(int64(len(s))))
}

// Len returns how many samples are held for the pool.
func (h *UsageHistory) Len(poolID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples[poolID])
}

// RebalanceStrategy computes buffer thresholds and rebalance recommendations.
type RebalanceStrategy interface {
	Threshold(ctx context.Context, pool *domain.LiquidityPool) decimal.Decimal
	Evaluate(ctx context.Context, pool *domain.LiquidityPool, available decimal.Decimal) domain.RebalanceAction
}

// NewRebalanceStrategy builds the configured variant. advisor is required
// for risk_aware; its calls run under guard.
func NewRebalanceStrategy(kind string, baseBuffer decimal.Decimal, history *UsageHistory, advisor ports.RiskAdvisor, guard CallGuard, log zerolog.Logger) (RebalanceStrategy, error) {
	plain := &adaptiveStrategy{baseBuffer: baseBuffer, history: history}
	switch kind {
	case "", StrategyPlain:
		return plain, nil
	case StrategyRiskAware:
		if advisor == nil {
			return nil, fmt.Errorf("risk_aware strategy requires a risk advisor")
		}
		return &riskAwareStrategy{base: plain, advisor: advisor, guard: guard, log: log}, nil
	default:
		return nil, fmt.Errorf("unknown rebalance strategy %q", kind)
	}
}

// adaptiveStrategy: threshold = max(base_buffer, 2 * mean(recent volumes)).
type adaptiveStrategy struct {
	baseBuffer decimal.Decimal
	history    *UsageHistory
}

func (s *adaptiveStrategy) Threshold(_ context.Context, pool *domain.LiquidityPool) decimal.Decimal {
	return decimal.Max(s.baseBuffer, s.history.Mean(pool.ID).Mul(two))
}

func (s *adaptiveStrategy) Evaluate(ctx context.Context, pool *domain.LiquidityPool, available decimal.Decimal) domain.RebalanceAction {
	return s.evaluateAgainst(s.Threshold(ctx, pool), available)
}

func (s *adaptiveStrategy) evaluateAgainst(threshold, available decimal.Decimal) domain.RebalanceAction {
	switch {
	case available.LessThan(s.baseBuffer):
		return domain.RebalanceAction{
			ShouldRebalance: true,
			ActionType:      domain.RebalanceMarketSwap,
			AmountNeeded:    threshold.Sub(available),
			Threshold:       threshold,
			Reason:          fmt.Sprintf("available %s below base buffer %s", available, s.baseBuffer),
		}
	case available.LessThan(threshold):
		return domain.RebalanceAction{
			ShouldRebalance: true,
			ActionType:      domain.RebalanceLimitOrder,
			AmountNeeded:    threshold.Sub(available),
			Threshold:       threshold,
			Reason:          fmt.Sprintf("available %s below dynamic threshold %s", available, threshold),
		}
	default:
		return domain.RebalanceAction{
			ActionType:   domain.RebalanceNone,
			AmountNeeded: decimal.Zero,
			Threshold:    threshold,
			Reason:       "pool above threshold",
		}
	}
}

// riskAwareStrategy scales the adaptive threshold by external risk and can
// force a halt recommendation.
type riskAwareStrategy struct {
	base    *adaptiveStrategy
	advisor ports.RiskAdvisor
	guard   CallGuard
	log     zerolog.Logger
}

func (s *riskAwareStrategy) Threshold(ctx context.Context, pool *domain.LiquidityPool) decimal.Decimal {
	threshold, _ := s.scaled(ctx, pool)
	return threshold
}

func (s *riskAwareStrategy) Evaluate(ctx context.Context, pool *domain.LiquidityPool, available decimal.Decimal) domain.RebalanceAction {
	threshold, advisory := s.scaled(ctx, pool)
	if advisory != nil && advisory.Level == domain.RiskHigh && advisory.RecommendHalt {
		return domain.RebalanceAction{
			ActionType:   domain.RebalanceHalt,
			AmountNeeded: decimal.Zero,
			Threshold:    threshold,
			Reason:       "high risk, advisory recommends halt: " + advisory.Reason,
		}
	}
	return s.base.evaluateAgainst(threshold, available)
}

// scaled returns the risk-adjusted threshold. An advisor failure or unknown
// level falls back to the unscaled threshold.
func (s *riskAwareStrategy) scaled(ctx context.Context, pool *domain.LiquidityPool) (decimal.Decimal, *domain.RiskAdvisory) {
	threshold := s.base.Threshold(ctx, pool)

	var advisory *domain.RiskAdvisory
	err := s.guard.Do(ctx, DepRiskAdvisor, func(ctx context.Context) error {
		var err error
		advisory, err = s.advisor.Assess(ctx, pool)
		return err
	})
	if err != nil || advisory == nil {
		s.log.Warn().Err(err).Str("pool_id", pool.ID).Msg("risk advisory unavailable, using base threshold")
		return threshold, nil
	}
	mult, ok := riskMultipliers[advisory.Level]
	if !ok || mult.LessThan(decimal.NewFromInt(1)) {
		return threshold, advisory
	}
	return threshold.Mul(mult), advisory
}
