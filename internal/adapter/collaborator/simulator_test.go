package collaborator

import (
	"context"
	"testing"
	"time"

	"payflow/config"
	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSuite() *Suite {
	return NewSuite(config.SimulatorConfig{
		Seed:             7,
		FeeBps:           50,
		ReviewAbove:      decimal.NewFromInt(10000),
		BlockedCountries: []string{"kp"},
		Rates:            map[string]decimal.Decimal{"USD-NGN": decimal.NewFromInt(1500)},
		Yield:            map[string]decimal.Decimal{"usd-ngn": decimal.NewFromInt(300)},
		RiskLevels:       map[string]string{"usd-ngn": "HIGH"},
	})
}

func testPayment(amount int64) *domain.Payment {
	return &domain.Payment{
		ID:           uuid.New(),
		Amount:       decimal.NewFromInt(amount),
		FromCurrency: "USD",
		ToCurrency:   "NGN",
		Sender:       domain.Party{Name: "Ada", Country: "US", Account: "111"},
		Recipient:    domain.Party{Name: "Bola", Country: "NG", Account: "222"},
	}
}

func TestFaults_FailureRate(t *testing.T) {
	ctx := context.Background()

	always := newFaults(0, 1, 1)
	assert.Error(t, always.inject(ctx, "rail"))

	never := newFaults(0, 0, 1)
	for range 20 {
		assert.NoError(t, never.inject(ctx, "rail"))
	}
}

func TestFaults_LatencyHonoursContext(t *testing.T) {
	f := newFaults(time.Second, 0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := f.inject(ctx, "rail")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimRouter_SelectRoute(t *testing.T) {
	s := testSuite()
	p := testPayment(1000)

	route, err := s.Router.SelectRoute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "mobile-money", route.Rail)
	assert.True(t, route.Fee.Equal(decimal.NewFromInt(5)), route.Fee.String())

	p.Recipient.Institution = "First Bank"
	route, err = s.Router.SelectRoute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "bank-transfer", route.Rail)

	p.ToCurrency = "JPY"
	_, err = s.Router.SelectRoute(context.Background(), p)
	assert.ErrorIs(t, err, ports.ErrPermanent)
}

func TestSimCompliance_Verdicts(t *testing.T) {
	s := testSuite()
	ctx := context.Background()

	res, err := s.Compliance.Evaluate(ctx, testPayment(500))
	require.NoError(t, err)
	assert.Equal(t, domain.CompliancePass, res.Verdict)

	res, err = s.Compliance.Evaluate(ctx, testPayment(10000))
	require.NoError(t, err)
	assert.Equal(t, domain.ComplianceReview, res.Verdict)

	blocked := testPayment(500)
	blocked.Recipient.Country = "KP"
	res, err = s.Compliance.Evaluate(ctx, blocked)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplianceFail, res.Verdict)
	assert.Len(t, res.Reasons, 1)
}

func TestStaticRates_GetRate(t *testing.T) {
	s := testSuite()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Rates.now = func() time.Time { return fixed }

	q, err := s.Rates.GetRate(context.Background(), "usd", "ngn")
	require.NoError(t, err)
	assert.Equal(t, "USD", q.From)
	assert.True(t, q.Rate.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, fixed, q.FetchedAt)

	q, err = s.Rates.GetRate(context.Background(), "NGN", "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.00066667", q.Rate.String())

	_, err = s.Rates.GetRate(context.Background(), "EUR", "JPY")
	assert.ErrorIs(t, err, ports.ErrPermanent)
}

func TestSimExecutionAndSettlement(t *testing.T) {
	s := testSuite()
	ctx := context.Background()
	p := testPayment(100)

	receipt, err := s.Execution.Execute(ctx, p, &domain.Route{Rail: "mobile-money"})
	require.NoError(t, err)
	assert.Contains(t, receipt.TxRef, "EXE-MOBILE-MONEY-")

	_, err = s.Execution.Execute(ctx, p, nil)
	assert.ErrorIs(t, err, ports.ErrPermanent)

	batch := &domain.SettlementBatch{
		ID: uuid.New(),
		Items: []domain.SettlementItem{{
			PaymentID: p.ID, Amount: p.Amount, Currency: "USD", Recipient: p.Recipient, TxRef: receipt.TxRef,
		}},
	}
	first, err := s.Settlement.Settle(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, first.TxHash, 66)
	assert.Equal(t, "0x", first.TxHash[:2])

	again, err := s.Settlement.Settle(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, first.TxHash, again.TxHash)

	_, err = s.Settlement.Settle(ctx, &domain.SettlementBatch{ID: uuid.New()})
	assert.ErrorIs(t, err, ports.ErrPermanent)
}

func TestSimYield_UnwindCapsAtPosition(t *testing.T) {
	s := testSuite()
	ctx := context.Background()

	freed, err := s.Yield.Unwind(ctx, "usd-ngn", decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.True(t, freed.Equal(decimal.NewFromInt(200)))

	freed, err = s.Yield.Unwind(ctx, "usd-ngn", decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.True(t, freed.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Yield.Position("usd-ngn").IsZero())

	_, err = s.Yield.Unwind(ctx, "usd-ngn", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ports.ErrPermanent)
}

func TestSimRebalancerAndRiskAdvisor(t *testing.T) {
	s := testSuite()
	ctx := context.Background()
	pool := &domain.LiquidityPool{ID: "usd-ngn", FromCurrency: "USD", ToCurrency: "NGN"}

	credited, err := s.Rebalancer.Execute(ctx, pool, domain.RebalanceAction{
		ShouldRebalance: true, ActionType: domain.RebalanceMarketSwap, AmountNeeded: decimal.NewFromInt(750),
	})
	require.NoError(t, err)
	assert.True(t, credited.Equal(decimal.NewFromInt(750)))

	credited, err = s.Rebalancer.Execute(ctx, pool, domain.RebalanceAction{ActionType: domain.RebalanceHalt})
	require.NoError(t, err)
	assert.True(t, credited.IsZero())

	advisory, err := s.Risk.Assess(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, advisory.Level)
	assert.True(t, advisory.RecommendHalt)

	other := &domain.LiquidityPool{ID: "gbp-ngn", FromCurrency: "GBP", ToCurrency: "NGN"}
	advisory, err = s.Risk.Assess(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, advisory.Level)
}
