package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPool(id string) *domain.LiquidityPool {
	return &domain.LiquidityPool{ID: id, FromCurrency: "USD", ToCurrency: "NGN", Status: domain.PoolStatusActive}
}

func TestUsageHistory_BoundedWindow(t *testing.T) {
	h := NewUsageHistory(3)
	assert.True(t, h.Mean("p").IsZero())

	for _, v := range []string{"10", "20", "30", "40"} {
		h.Record("p", dec(v))
	}
	assert.Equal(t, 3, h.Len("p"))
	assert.True(t, h.Mean("p").Equal(dec("30")), "oldest sample evicted")
	assert.Zero(t, h.Len("other"))
}

func TestAdaptiveStrategy_Evaluate(t *testing.T) {
	tests := []struct {
		name      string
		samples   []string
		available string
		wantType  domain.RebalanceActionType
		wantNeed  string
		wantThr   string
	}{
		{"empty history below base", nil, "50", domain.RebalanceMarketSwap, "50", "100"},
		{"at base is healthy", nil, "100", domain.RebalanceNone, "0", "100"},
		{"dynamic threshold above base", []string{"100", "200"}, "250", domain.RebalanceLimitOrder, "50", "300"},
		{"below base with dynamic threshold", []string{"100", "200"}, "80", domain.RebalanceMarketSwap, "220", "300"},
		{"small volumes keep base", []string{"10", "20"}, "150", domain.RebalanceNone, "0", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUsageHistory(10)
			for _, s := range tt.samples {
				h.Record("usd-ngn", dec(s))
			}
			strategy, err := NewRebalanceStrategy(StrategyPlain, dec("100"), h, nil, CallGuard{}, newTestLogger())
			require.NoError(t, err)

			action := strategy.Evaluate(context.Background(), testPool("usd-ngn"), dec(tt.available))
			assert.Equal(t, tt.wantType, action.ActionType)
			assert.True(t, action.AmountNeeded.Equal(dec(tt.wantNeed)), "amount needed %s", action.AmountNeeded)
			assert.True(t, action.Threshold.Equal(dec(tt.wantThr)), "threshold %s", action.Threshold)
			assert.Equal(t, tt.wantType != domain.RebalanceNone, action.ShouldRebalance)
		})
	}
}

func TestNewRebalanceStrategy_Validation(t *testing.T) {
	_, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), nil, CallGuard{}, newTestLogger())
	assert.Error(t, err)

	_, err = NewRebalanceStrategy("magic", dec("100"), NewUsageHistory(10), nil, CallGuard{}, newTestLogger())
	assert.Error(t, err)

	s, err := NewRebalanceStrategy("", dec("100"), NewUsageHistory(10), nil, CallGuard{}, newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &adaptiveStrategy{}, s)
}

func TestRiskAwareStrategy_ScalesThreshold(t *testing.T) {
	tests := []struct {
		level   domain.RiskLevel
		wantThr string
	}{
		{domain.RiskLow, "100"},
		{domain.RiskMedium, "120"},
		{domain.RiskHigh, "150"},
		{domain.RiskLevel("unknown"), "100"},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			advisor := mocks.NewMockRiskAdvisor(ctrl)
			advisor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(&domain.RiskAdvisory{Level: tt.level}, nil)

			s, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), advisor, CallGuard{}, newTestLogger())
			require.NoError(t, err)
			assert.True(t, s.Threshold(context.Background(), testPool("p")).Equal(dec(tt.wantThr)))
		})
	}
}

func TestRiskAwareStrategy_HighRiskHalt(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := mocks.NewMockRiskAdvisor(ctrl)
	advisor.EXPECT().Assess(gomock.Any(), gomock.Any()).
		Return(&domain.RiskAdvisory{Level: domain.RiskHigh, RecommendHalt: true, Reason: "corridor sanctions alert"}, nil)

	s, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), advisor, CallGuard{}, newTestLogger())
	require.NoError(t, err)

	action := s.Evaluate(context.Background(), testPool("p"), dec("10"))
	assert.Equal(t, domain.RebalanceHalt, action.ActionType)
	assert.False(t, action.ShouldRebalance)
	assert.Contains(t, action.Reason, "sanctions")
}

func TestRiskAwareStrategy_MediumRiskLimitOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := mocks.NewMockRiskAdvisor(ctrl)
	advisor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(&domain.RiskAdvisory{Level: domain.RiskMedium}, nil)

	s, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), advisor, CallGuard{}, newTestLogger())
	require.NoError(t, err)

	action := s.Evaluate(context.Background(), testPool("p"), dec("110"))
	assert.Equal(t, domain.RebalanceLimitOrder, action.ActionType)
	assert.True(t, action.AmountNeeded.Equal(dec("10")))
}

func TestRiskAwareStrategy_AdvisorFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := mocks.NewMockRiskAdvisor(ctrl)
	advisor.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(nil, errors.New("advisor down"))

	s, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), advisor, CallGuard{}, newTestLogger())
	require.NoError(t, err)

	action := s.Evaluate(context.Background(), testPool("p"), dec("50"))
	assert.Equal(t, domain.RebalanceMarketSwap, action.ActionType)
	assert.True(t, action.Threshold.Equal(dec("100")))
}

func TestRiskAwareStrategy_AdvisorCallIsGuarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := mocks.NewMockRiskAdvisor(ctrl)
	advisor.EXPECT().Assess(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.LiquidityPool) (*domain.RiskAdvisory, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	breakers := NewBreakerRegistry(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute}, nil, newTestLogger())
	guard := CallGuard{Breakers: breakers, Timeout: 50 * time.Millisecond}
	s, err := NewRebalanceStrategy(StrategyRiskAware, dec("100"), NewUsageHistory(10), advisor, guard, newTestLogger())
	require.NoError(t, err)

	assert.True(t, s.Threshold(context.Background(), testPool("p")).Equal(dec("100")))
	assert.Equal(t, domain.BreakerOpen, breakers.Get(DepRiskAdvisor).Snapshot().State)

	// open breaker: base threshold without calling the advisor
	assert.True(t, s.Threshold(context.Background(), testPool("p")).Equal(dec("100")))
}
