package dto

import (
	"testing"
	"time"

	"payflow/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsAndEscapesNested(t *testing.T) {
	req := SubmitPaymentRequest{
		Reference: "  inv-001  ",
		Amount:    decimal.NewFromInt(10),
		Sender:    PartyRequest{Name: " Ada <b>Lovelace</b> ", Country: "GB", Account: " 123 "},
		Recipient: PartyRequest{Name: "Bola", Country: "NG", Account: "456"},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "inv-001", req.Reference)
	assert.Equal(t, "Ada &lt;b&gt;Lovelace&lt;/b&gt;", req.Sender.Name)
	assert.Equal(t, "123", req.Sender.Account)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(10)))
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	note := "  <i>hi</i>  "
	req := struct {
		Note *string
		Nil  *string
	}{Note: &note}
	SanitizeStruct(&req)

	assert.Equal(t, "&lt;i&gt;hi&lt;/i&gt;", *req.Note)
	assert.Nil(t, req.Nil)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID(t *testing.T) {
	for _, tc := range []string{"ref-001", "REF_002", "a.b.c", "ABC-def_GHI.123"} {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
	for _, tc := range []string{"ref 001", "ref<001>", "ref;DROP", "", "ref\n001"} {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestCurrencyAndCountryPatterns(t *testing.T) {
	assert.True(t, currencyRe.MatchString("USD"))
	assert.False(t, currencyRe.MatchString("usd"))
	assert.False(t, currencyRe.MatchString("USDT"))
	assert.True(t, countryRe.MatchString("NG"))
	assert.False(t, countryRe.MatchString("NGA"))
}

func TestSubmitPaymentRequest_Binding(t *testing.T) {
	valid := SubmitPaymentRequest{
		Reference:    "inv-001",
		Amount:       decimal.NewFromInt(100),
		FromCurrency: "USD",
		ToCurrency:   "NGN",
		Sender:       PartyRequest{Name: "Ada", Country: "US", Account: "111"},
		Recipient:    PartyRequest{Name: "Bola", Country: "NG", Account: "222"},
	}
	require.NoError(t, binding.Validator.ValidateStruct(&valid))

	bad := valid
	bad.FromCurrency = "usd"
	assert.Error(t, binding.Validator.ValidateStruct(&bad))

	bad = valid
	bad.Recipient.Country = "Nigeria"
	assert.Error(t, binding.Validator.ValidateStruct(&bad))

	bad = valid
	bad.Reference = "inv 001"
	assert.Error(t, binding.Validator.ValidateStruct(&bad))
}

func TestResumeRequest_Binding(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&ResumeRequest{Decision: "approve"}))
	assert.Error(t, binding.Validator.ValidateStruct(&ResumeRequest{Decision: "maybe"}))
}

func TestFromSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("1500.5")
	converted := decimal.RequireFromString("150050")
	p := &domain.Payment{
		ID:              uuid.New(),
		Reference:       "inv-001",
		Amount:          decimal.NewFromInt(100),
		FromCurrency:    "USD",
		ToCurrency:      "NGN",
		Status:          domain.PaymentStatusCompleted,
		Route:           &domain.Route{Rail: "mobile-money", Fee: decimal.NewFromInt(1)},
		LockedRate:      &rate,
		ConvertedAmount: &converted,
		Fees:            decimal.NewFromInt(1),
		CreatedAt:       now,
		UpdatedAt:       now,
		CompletedAt:     &now,
	}
	trail := []*domain.SagaAuditEntry{{Stage: domain.StageRouting, Outcome: domain.OutcomeSuccess, Status: domain.PaymentStatusRouting, LatencyMS: 4, CreatedAt: now}}

	resp := FromSnapshot(&domain.PaymentSnapshot{Payment: p, Trail: trail})
	assert.Equal(t, "mobile-money", resp.Rail)
	assert.Equal(t, "1500.5", *resp.LockedRate)
	assert.Equal(t, "150050", *resp.ConvertedAmount)
	assert.Equal(t, "2026-03-01T12:00:00Z", *resp.CompletedAt)
	require.Len(t, resp.Trail, 1)
	assert.Equal(t, "routing", resp.Trail[0].Stage)
}
