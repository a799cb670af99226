package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the saga-level lifecycle state of a cross-border payment.
type PaymentStatus string

const (
	PaymentStatusPending          PaymentStatus = "PENDING"
	PaymentStatusRouting          PaymentStatus = "ROUTING"
	PaymentStatusSettling         PaymentStatus = "SETTLING"
	PaymentStatusYieldUnwinding   PaymentStatus = "YIELD_UNWINDING"
	PaymentStatusComplianceReview PaymentStatus = "COMPLIANCE_REVIEW"
	PaymentStatusOfflineQueued    PaymentStatus = "OFFLINE_QUEUED"
	PaymentStatusCompleted        PaymentStatus = "COMPLETED"
	PaymentStatusFailed           PaymentStatus = "FAILED"
	PaymentStatusCancelled        PaymentStatus = "CANCELLED"
	PaymentStatusExpired          PaymentStatus = "EXPIRED"
)

// Party describes a sender or recipient of a payment.
type Party struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Account     string `json:"account"`
	Institution string `json:"institution,omitempty"`
}

// Route is the rail path chosen by the route optimizer.
type Route struct {
	Rail string          `json:"rail"`
	ETA  time.Duration   `json:"eta"`
	Fee  decimal.Decimal `json:"fee"`
}

// Payment is a cross-border transfer driven through the saga.
type Payment struct {
	ID              uuid.UUID        `json:"id"`
	Reference       string           `json:"reference"`
	IdempotencyKey  string           `json:"-"`
	Amount          decimal.Decimal  `json:"amount"`
	FromCurrency    string           `json:"from_currency"`
	ToCurrency      string           `json:"to_currency"`
	Sender          Party            `json:"sender"`
	Recipient       Party            `json:"recipient"`
	Status          PaymentStatus    `json:"status"`
	Route           *Route           `json:"route,omitempty"`
	LockedRate      *decimal.Decimal `json:"locked_rate,omitempty"`
	RateLockedAt    *time.Time       `json:"rate_locked_at,omitempty"`
	ConvertedAmount *decimal.Decimal `json:"converted_amount,omitempty"`
	Fees            decimal.Decimal  `json:"fees"`
	ReservationID   *uuid.UUID       `json:"reservation_id,omitempty"`
	ExecutionRef    string           `json:"execution_ref,omitempty"`
	SettlementRef   string           `json:"settlement_ref,omitempty"`
	FailureCode     string           `json:"failure_code,omitempty"`
	FailureReason   string           `json:"failure_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// Corridor returns the pool key for the payment's currency pair.
func (p *Payment) Corridor() string {
	return CorridorKey(p.FromCurrency, p.ToCurrency)
}

// IsTerminal returns true if the payment is in a final state.
func (p *Payment) IsTerminal() bool {
	return IsTerminalStatus(p.Status)
}

// TransitionTo moves the payment to next if the state machine allows it.
// Re-applying the current status is a no-op refresh that only bumps UpdatedAt.
func (p *Payment) TransitionTo(next PaymentStatus, now time.Time) error {
	if err := ValidateTransition(p.Status, next); err != nil {
		return err
	}
	p.Status = next
	p.UpdatedAt = now
	if next == PaymentStatusCompleted && p.CompletedAt == nil {
		p.CompletedAt = &now
	}
	return nil
}

// LockRate records the rate used for conversion and derives ConvertedAmount.
func (p *Payment) LockRate(rate decimal.Decimal, at time.Time) {
	converted := p.Amount.Mul(rate)
	p.LockedRate = &rate
	p.RateLockedAt = &at
	p.ConvertedAmount = &converted
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p *Payment) Clone() *Payment {
	cp := *p
	if p.Route != nil {
		r := *p.Route
		cp.Route = &r
	}
	if p.LockedRate != nil {
		v := *p.LockedRate
		cp.LockedRate = &v
	}
	if p.RateLockedAt != nil {
		v := *p.RateLockedAt
		cp.RateLockedAt = &v
	}
	if p.ConvertedAmount != nil {
		v := *p.ConvertedAmount
		cp.ConvertedAmount = &v
	}
	if p.ReservationID != nil {
		v := *p.ReservationID
		cp.ReservationID = &v
	}
	if p.CompletedAt != nil {
		v := *p.CompletedAt
		cp.CompletedAt = &v
	}
	return &cp
}

// CorridorKey builds the canonical corridor identifier, e.g. "USD-NGN".
func CorridorKey(from, to string) string {
	return strings.ToUpper(strings.TrimSpace(from)) + "-" + strings.ToUpper(strings.TrimSpace(to))
}

// PaymentResult is what a caller receives from submit, resume and cancel.
type PaymentResult struct {
	Success   bool          `json:"success"`
	PaymentID uuid.UUID     `json:"payment_id"`
	Status    PaymentStatus `json:"status"`
	Message   string        `json:"message"`
	ErrorCode string        `json:"error_code,omitempty"`
}

// PaymentSnapshot is the durable view of a payment plus its saga audit trail.
type PaymentSnapshot struct {
	Payment *Payment          `json:"payment"`
	Trail   []*SagaAuditEntry `json:"trail"`
}

// ReviewDecision is the outcome of a manual compliance review.
type ReviewDecision string

const (
	ReviewApprove ReviewDecision = "approve"
	ReviewReject  ReviewDecision = "reject"
)
