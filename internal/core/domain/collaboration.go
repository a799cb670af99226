package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComplianceVerdict is the decision of the compliance evaluator.
type ComplianceVerdict string

const (
	CompliancePass   ComplianceVerdict = "PASS"
	ComplianceFail   ComplianceVerdict = "FAIL"
	ComplianceReview ComplianceVerdict = "REVIEW"
)

// ComplianceResult is the full evaluator response.
type ComplianceResult struct {
	Verdict   ComplianceVerdict `json:"verdict"`
	RiskScore float64           `json:"risk_score"`
	Reasons   []string          `json:"reasons,omitempty"`
}

// RateQuote is an FX rate with the time it was observed at the source.
type RateQuote struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// IsFresh reports whether the quote is younger than window at now.
func (q RateQuote) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(q.FetchedAt) <= window
}

// ExecutionReceipt is returned by the execution rail.
type ExecutionReceipt struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// SettlementItem is one payment inside a settlement batch.
type SettlementItem struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Recipient Party           `json:"recipient"`
	TxRef     string          `json:"tx_ref"`
}

// SettlementBatch groups payments settled in one value-transfer call.
type SettlementBatch struct {
	ID    uuid.UUID        `json:"id"`
	Items []SettlementItem `json:"items"`
}

// SettlementReceipt is returned by the settlement rail.
type SettlementReceipt struct {
	TxHash string `json:"tx_hash"`
}

// PaymentEvent is the notification published after a saga reaches a milestone.
type PaymentEvent struct {
	Type       string          `json:"type"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Reference  string          `json:"reference"`
	Status     PaymentStatus   `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}
