package dto

import (
	"time"

	"payflow/internal/core/domain"

	"github.com/shopspring/decimal"
)

// HeaderIdempotencyKey carries the caller's idempotency key on submit.
const HeaderIdempotencyKey = "Idempotency-Key"

// TokenRequest is the request body for operator login.
type TokenRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// TokenResponse is the response body for a successful operator login.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PartyRequest describes a sender or recipient.
type PartyRequest struct {
	Name        string `json:"name" binding:"required,max=140"`
	Country     string `json:"country" binding:"required,iso_country"`
	Account     string `json:"account" binding:"required,max=64"`
	Institution string `json:"institution,omitempty" binding:"max=140"`
}

// SubmitPaymentRequest is the request body for POST /api/v1/payments.
// Amount accepts a JSON string or number; bounds are enforced by the saga.
type SubmitPaymentRequest struct {
	Reference    string          `json:"reference" binding:"required,max=100,safe_id"`
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"from_currency" binding:"required,iso_currency"`
	ToCurrency   string          `json:"to_currency" binding:"required,iso_currency"`
	Sender       PartyRequest    `json:"sender" binding:"required"`
	Recipient    PartyRequest    `json:"recipient" binding:"required"`
}

// ResumeRequest is the request body for a compliance review decision.
type ResumeRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reviewer string `json:"reviewer,omitempty" binding:"max=64"`
}

func (p PartyRequest) ToDomain() domain.Party {
	return domain.Party{
		Name:        p.Name,
		Country:     p.Country,
		Account:     p.Account,
		Institution: p.Institution,
	}
}

// AuditEntryResponse is one saga audit entry.
type AuditEntryResponse struct {
	Stage     string `json:"stage"`
	Outcome   string `json:"outcome"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	ErrorCode string `json:"error_code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// PaymentResponse is the status view of a payment.
type PaymentResponse struct {
	ID              string               `json:"id"`
	Reference       string               `json:"reference"`
	Amount          string               `json:"amount"`
	FromCurrency    string               `json:"from_currency"`
	ToCurrency      string               `json:"to_currency"`
	Status          string               `json:"status"`
	Rail            string               `json:"rail,omitempty"`
	Fees            string               `json:"fees"`
	LockedRate      *string              `json:"locked_rate,omitempty"`
	ConvertedAmount *string              `json:"converted_amount,omitempty"`
	ExecutionRef    string               `json:"execution_ref,omitempty"`
	SettlementRef   string               `json:"settlement_ref,omitempty"`
	FailureCode     string               `json:"failure_code,omitempty"`
	FailureReason   string               `json:"failure_reason,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
	CompletedAt     *string              `json:"completed_at,omitempty"`
	Trail           []AuditEntryResponse `json:"trail"`
}

// FromSnapshot converts a payment snapshot to its response form.
func FromSnapshot(snap *domain.PaymentSnapshot) PaymentResponse {
	p := snap.Payment
	resp := PaymentResponse{
		ID:            p.ID.String(),
		Reference:     p.Reference,
		Amount:        p.Amount.String(),
		FromCurrency:  p.FromCurrency,
		ToCurrency:    p.ToCurrency,
		Status:        string(p.Status),
		Fees:          p.Fees.String(),
		ExecutionRef:  p.ExecutionRef,
		SettlementRef: p.SettlementRef,
		FailureCode:   p.FailureCode,
		FailureReason: p.FailureReason,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
		Trail:         make([]AuditEntryResponse, 0, len(snap.Trail)),
	}
	if p.Route != nil {
		resp.Rail = p.Route.Rail
	}
	if p.LockedRate != nil {
		s := p.LockedRate.String()
		resp.LockedRate = &s
	}
	if p.ConvertedAmount != nil {
		s := p.ConvertedAmount.String()
		resp.ConvertedAmount = &s
	}
	if p.CompletedAt != nil {
		s := formatTime(*p.CompletedAt)
		resp.CompletedAt = &s
	}
	for _, e := range snap.Trail {
		resp.Trail = append(resp.Trail, AuditEntryResponse{
			Stage:     string(e.Stage),
			Outcome:   string(e.Outcome),
			Status:    string(e.Status),
			LatencyMS: e.LatencyMS,
			ErrorCode: e.ErrorCode,
			Detail:    e.Detail,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
