// Package collaborator provides adapters for the external systems a payment
// saga talks to: simulated rails for local runs and a signed webhook notifier.
package collaborator

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"payflow/config"
	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// faults injects latency and transient failures into simulated calls.
type faults struct {
	latency     time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func newFaults(latency time.Duration, failureRate float64, seed int64) *faults {
	return &faults{
		latency:     latency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// inject sleeps for up to the configured latency, then fails with the
// configured probability. Injected failures are transient.
func (f *faults) inject(ctx context.Context, name string) error {
	f.mu.Lock()
	var delay time.Duration
	if f.latency > 0 {
		delay = f.latency/2 + time.Duration(f.rng.Int63n(int64(f.latency/2)+1))
	}
	fail := f.rng.Float64() < f.failureRate
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s call canceled: %w", name, ctx.Err())
		}
	}
	if fail {
		return fmt.Errorf("%s temporarily unavailable", name)
	}
	return nil
}

// Suite bundles one simulator per collaborator port, sharing fault injection.
type Suite struct {
	Router     *SimRouter
	Compliance *SimCompliance
	Rates      *StaticRates
	Execution  *SimExecution
	Settlement *SimSettlement
	Yield      *SimYield
	Rebalancer *SimRebalancer
	Risk       *StaticRiskAdvisor
}

// NewSuite builds the simulators from cfg.
func NewSuite(cfg config.SimulatorConfig) *Suite {
	f := newFaults(cfg.Latency, cfg.FailureRate, cfg.Seed)
	rates := NewStaticRates(cfg.Rates)
	return &Suite{
		Router:     &SimRouter{faults: f, rates: rates, feeBps: cfg.FeeBps},
		Compliance: &SimCompliance{faults: f, reviewAbove: cfg.ReviewAbove, blocked: upper(cfg.BlockedCountries)},
		Rates:      rates,
		Execution:  &SimExecution{faults: f},
		Settlement: &SimSettlement{faults: f},
		Yield:      NewSimYield(f, cfg.Yield),
		Rebalancer: &SimRebalancer{faults: f},
		Risk:       NewStaticRiskAdvisor(cfg.RiskLevels),
	}
}

func upper(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToUpper(strings.TrimSpace(s)))
	}
	return out
}

// SimRouter picks a rail for every corridor that has a quoted rate.
type SimRouter struct {
	faults *faults
	rates  *StaticRates
	feeBps int64
}

var _ ports.RouteOptimizer = (*SimRouter)(nil)

func (r *SimRouter) SelectRoute(ctx context.Context, payment *domain.Payment) (*domain.Route, error) {
	if err := r.faults.inject(ctx, "route optimizer"); err != nil {
		return nil, err
	}
	if !r.rates.Supports(payment.FromCurrency, payment.ToCurrency) {
		return nil, fmt.Errorf("no route for corridor %s: %w", payment.Corridor(), ports.ErrPermanent)
	}

	rail, eta := "bank-transfer", 24*time.Hour
	if payment.Recipient.Institution == "" {
		rail, eta = "mobile-money", 15*time.Minute
	}
	fee := payment.Amount.Mul(decimal.NewFromInt(r.feeBps)).Div(decimal.NewFromInt(10000)).Round(2)
	return &domain.Route{Rail: rail, ETA: eta, Fee: fee}, nil
}

// SimCompliance screens parties against a blocklist and flags large payments.
type SimCompliance struct {
	faults      *faults
	reviewAbove decimal.Decimal
	blocked     []string
}

var _ ports.ComplianceEvaluator = (*SimCompliance)(nil)

func (c *SimCompliance) Evaluate(ctx context.Context, payment *domain.Payment) (*domain.ComplianceResult, error) {
	if err := c.faults.inject(ctx, "compliance"); err != nil {
		return nil, err
	}

	var reasons []string
	for _, party := range []domain.Party{payment.Sender, payment.Recipient} {
		if slices.Contains(c.blocked, strings.ToUpper(party.Country)) {
			reasons = append(reasons, fmt.Sprintf("sanctioned country %s", party.Country))
		}
	}
	if len(reasons) > 0 {
		return &domain.ComplianceResult{Verdict: domain.ComplianceFail, RiskScore: 1, Reasons: reasons}, nil
	}
	if c.reviewAbove.IsPositive() && payment.Amount.GreaterThanOrEqual(c.reviewAbove) {
		return &domain.ComplianceResult{
			Verdict:   domain.ComplianceReview,
			RiskScore: 0.6,
			Reasons:   []string{"amount at or above review threshold " + c.reviewAbove.String()},
		}, nil
	}
	return &domain.ComplianceResult{Verdict: domain.CompliancePass, RiskScore: 0.1}, nil
}

// StaticRates serves fixed corridor rates, quoting inverse pairs on demand.
type StaticRates struct {
	rates map[string]decimal.Decimal
	now   func() time.Time
}

var _ ports.RateSource = (*StaticRates)(nil)

// NewStaticRates creates a rate source keyed by corridor ("USD-NGN").
func NewStaticRates(rates map[string]decimal.Decimal) *StaticRates {
	m := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		m[strings.ToUpper(k)] = v
	}
	return &StaticRates{rates: m, now: time.Now}
}

// Supports reports whether a rate exists for from->to in either direction.
func (s *StaticRates) Supports(from, to string) bool {
	_, ok := s.lookup(from, to)
	return ok
}

func (s *StaticRates) GetRate(ctx context.Context, from, to string) (*domain.RateQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rate, ok := s.lookup(from, to)
	if !ok {
		return nil, fmt.Errorf("no rate for %s: %w", domain.CorridorKey(from, to), ports.ErrPermanent)
	}
	return &domain.RateQuote{
		From:      strings.ToUpper(from),
		To:        strings.ToUpper(to),
		Rate:      rate,
		FetchedAt: s.now(),
	}, nil
}

func (s *StaticRates) lookup(from, to string) (decimal.Decimal, bool) {
	if r, ok := s.rates[domain.CorridorKey(from, to)]; ok && r.IsPositive() {
		return r, true
	}
	if r, ok := s.rates[domain.CorridorKey(to, from)]; ok && r.IsPositive() {
		return decimal.NewFromInt(1).DivRound(r, 8), true
	}
	return decimal.Zero, false
}

// SimExecution accepts every payment that reaches it.
type SimExecution struct {
	faults *faults
}

var _ ports.ExecutionRail = (*SimExecution)(nil)

func (e *SimExecution) Execute(ctx context.Context, payment *domain.Payment, route *domain.Route) (*domain.ExecutionReceipt, error) {
	if err := e.faults.inject(ctx, "execution rail"); err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("payment %s has no route: %w", payment.ID, ports.ErrPermanent)
	}
	ref := fmt.Sprintf("EXE-%s-%s", strings.ToUpper(route.Rail), strings.ToUpper(uuid.NewString()[:8]))
	return &domain.ExecutionReceipt{TxRef: ref, Status: "submitted"}, nil
}

// SimSettlement derives a keccak transaction hash from the batch contents.
type SimSettlement struct {
	faults *faults
}

var _ ports.SettlementRail = (*SimSettlement)(nil)

func (s *SimSettlement) Settle(ctx context.Context, batch *domain.SettlementBatch) (*domain.SettlementReceipt, error) {
	if err := s.faults.inject(ctx, "settlement rail"); err != nil {
		return nil, err
	}
	if batch == nil || len(batch.Items) == 0 {
		return nil, fmt.Errorf("empty settlement batch: %w", ports.ErrPermanent)
	}

	parts := [][]byte{batch.ID[:]}
	for _, item := range batch.Items {
		parts = append(parts, item.PaymentID[:], []byte(item.Amount.String()), []byte(item.Currency), []byte(item.TxRef))
	}
	return &domain.SettlementReceipt{TxHash: crypto.Keccak256Hash(parts...).Hex()}, nil
}

// SimYield holds per-pool yield positions that can be unwound into hot liquidity.
type SimYield struct {
	faults *faults

	mu        sync.Mutex
	positions map[string]decimal.Decimal
}

var _ ports.YieldManager = (*SimYield)(nil)

// NewSimYield creates a yield manager with the given positions, keyed by pool id.
func NewSimYield(f *faults, positions map[string]decimal.Decimal) *SimYield {
	m := make(map[string]decimal.Decimal, len(positions))
	for k, v := range positions {
		m[k] = v
	}
	return &SimYield{faults: f, positions: m}
}

// Unwind releases up to amount from the pool's position and returns what was freed.
func (y *SimYield) Unwind(ctx context.Context, poolID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := y.faults.inject(ctx, "yield manager"); err != nil {
		return decimal.Zero, err
	}

	y.mu.Lock()
	defer y.mu.Unlock()

	position, ok := y.positions[poolID]
	if !ok || !position.IsPositive() {
		return decimal.Zero, fmt.Errorf("no yield position for pool %s: %w", poolID, ports.ErrPermanent)
	}
	freed := decimal.Min(position, amount)
	y.positions[poolID] = position.Sub(freed)
	return freed, nil
}

// Position returns the remaining position for poolID.
func (y *SimYield) Position(poolID string) decimal.Decimal {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.positions[poolID]
}

// SimRebalancer fills every recommended top-up in full.
type SimRebalancer struct {
	faults *faults
}

var _ ports.RebalanceExecutor = (*SimRebalancer)(nil)

func (r *SimRebalancer) Execute(ctx context.Context, pool *domain.LiquidityPool, action domain.RebalanceAction) (decimal.Decimal, error) {
	if action.ActionType == domain.RebalanceHalt || !action.AmountNeeded.IsPositive() {
		return decimal.Zero, nil
	}
	if err := r.faults.inject(ctx, "rebalance executor"); err != nil {
		return decimal.Zero, err
	}
	return action.AmountNeeded, nil
}

// StaticRiskAdvisor returns a configured risk level per corridor, low otherwise.
type StaticRiskAdvisor struct {
	levels map[string]domain.RiskLevel
}

var _ ports.RiskAdvisor = (*StaticRiskAdvisor)(nil)

// NewStaticRiskAdvisor creates an advisor from corridor -> level strings.
func NewStaticRiskAdvisor(levels map[string]string) *StaticRiskAdvisor {
	m := make(map[string]domain.RiskLevel, len(levels))
	for corridor, level := range levels {
		m[strings.ToUpper(corridor)] = domain.RiskLevel(strings.ToLower(level))
	}
	return &StaticRiskAdvisor{levels: m}
}

func (a *StaticRiskAdvisor) Assess(ctx context.Context, pool *domain.LiquidityPool) (*domain.RiskAdvisory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	level, ok := a.levels[pool.Corridor()]
	if !ok {
		level = domain.RiskLow
	}
	advisory := &domain.RiskAdvisory{Level: level}
	if level == domain.RiskHigh {
		advisory.RecommendHalt = true
		advisory.Reason = "corridor flagged high risk"
	}
	return advisory, nil
}
