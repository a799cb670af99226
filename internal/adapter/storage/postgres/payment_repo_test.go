package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment() *domain.Payment {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Payment{
		ID:             uuid.New(),
		Reference:      "INV-1001",
		IdempotencyKey: "payment:abc",
		Amount:         decimal.RequireFromString("400.25"),
		FromCurrency:   "USD",
		ToCurrency:     "NGN",
		Sender:         domain.Party{Name: "Ada", Country: "US", Account: "111"},
		Recipient:      domain.Party{Name: "Chidi", Country: "NG", Account: "222", Institution: "GTB"},
		Status:         domain.PaymentStatusPending,
		Fees:           decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func paymentColumnNames() []string {
	return []string{"id", "reference", "idempotency_key", "amount", "from_currency", "to_currency",
		"sender", "recipient", "status", "route", "locked_rate", "rate_locked_at", "converted_amount",
		"fees", "reservation_id", "execution_ref", "settlement_ref", "failure_code", "failure_reason",
		"created_at", "updated_at", "completed_at"}
}

// paymentRowValues returns the row the database would hand back for p, with
// nullable columns as untyped NULL.
func paymentRowValues(t *testing.T, p *domain.Payment) []any {
	t.Helper()
	vals, err := paymentValues(p)
	require.NoError(t, err)
	for i, v := range vals {
		switch x := v.(type) {
		case []byte:
			if x == nil {
				vals[i] = nil
			}
		case *string:
			if x == nil {
				vals[i] = nil
			}
		case *time.Time:
			if x == nil {
				vals[i] = nil
			}
		case *uuid.UUID:
			if x == nil {
				vals[i] = nil
			}
		}
	}
	return vals
}

func paymentRow(t *testing.T, p *domain.Payment) *pgxmock.Rows {
	return pgxmock.NewRows(paymentColumnNames()).AddRow(paymentRowValues(t, p)...)
}

func TestPaymentRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	vals, err := paymentValues(p)
	require.NoError(t, err)
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(vals...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Create_Error(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)

	mock.ExpectExec("INSERT INTO payments").WithArgs(anyArgs(22)...).WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), newTestPayment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert payment")
}

func TestPaymentRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)

	p := newTestPayment()
	rate := decimal.RequireFromString("1500.5")
	p.Status = domain.PaymentStatusCompleted
	p.Route = &domain.Route{Rail: "mpesa", ETA: time.Minute, Fee: decimal.RequireFromString("2.5")}
	p.LockRate(rate, p.UpdatedAt)
	resID := uuid.New()
	p.ReservationID = &resID
	p.ExecutionRef = "tx-1"
	p.SettlementRef = "0xabc"
	p.CompletedAt = &p.UpdatedAt

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(paymentRow(t, p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, domain.PaymentStatusCompleted, got.Status)
	assert.True(t, p.Amount.Equal(got.Amount))
	assert.Equal(t, p.Recipient, got.Recipient)
	require.NotNil(t, got.Route)
	assert.Equal(t, "mpesa", got.Route.Rail)
	assert.True(t, got.Route.Fee.Equal(decimal.RequireFromString("2.5")))
	require.NotNil(t, got.LockedRate)
	assert.True(t, rate.Equal(*got.LockedRate))
	require.NotNil(t, got.ConvertedAmount)
	assert.True(t, p.ConvertedAmount.Equal(*got.ConvertedAmount))
	assert.Equal(t, &resID, got.ReservationID)
	assert.Equal(t, "0xabc", got.SettlementRef)
	assert.NotNil(t, got.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID_NullableColumns(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(paymentRow(t, p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Route)
	assert.Nil(t, got.LockedRate)
	assert.Nil(t, got.ConvertedAmount)
	assert.Nil(t, got.ReservationID)
	assert.Nil(t, got.CompletedAt)
}

func TestPaymentRepo_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(paymentColumnNames()))

	got, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID_CorruptAmount(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	vals := paymentRowValues(t, p)
	vals[3] = "not-a-number"

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(paymentColumnNames()).AddRow(vals...))

	_, err := repo.GetByID(context.Background(), p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestPaymentRepo_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	p := newTestPayment()
	p.Status = domain.PaymentStatusRouting
	p.Route = &domain.Route{Rail: "swift", Fee: decimal.NewFromInt(3)}
	route, _ := json.Marshal(p.Route)

	mock.ExpectExec("UPDATE payments SET .+ WHERE id = .+ AND status =").
		WithArgs(p.ID, "ROUTING", route, (*string)(nil), (*time.Time)(nil), (*string)(nil), "0",
			(*uuid.UUID)(nil), "", "", "", "", p.UpdatedAt, (*time.Time)(nil), "PENDING").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), p, domain.PaymentStatusPending))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Update_StaleWrite(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)
	p := newTestPayment()
	p.Status = domain.PaymentStatusCancelled

	mock.ExpectExec("UPDATE payments SET").WithArgs(anyArgs(15)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p, domain.PaymentStatusPending)
	assert.ErrorIs(t, err, ports.ErrStaleWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_ListByStatusUpdatedBefore(t *testing.T) {
	mock := newMock(t)
	repo := NewPaymentRepo(mock)

	a := newTestPayment()
	a.Status = domain.PaymentStatusRouting
	b := newTestPayment()
	b.Status = domain.PaymentStatusSettling
	cutoff := time.Now().UTC()

	rows := pgxmock.NewRows(paymentColumnNames()).
		AddRow(paymentRowValues(t, a)...).
		AddRow(paymentRowValues(t, b)...)

	mock.ExpectQuery("SELECT .+ FROM payments WHERE status = ANY").
		WithArgs([]string{"ROUTING", "SETTLING"}, cutoff, 50).
		WillReturnRows(rows)

	got, err := repo.ListByStatusUpdatedBefore(context.Background(),
		[]domain.PaymentStatus{domain.PaymentStatusRouting, domain.PaymentStatusSettling}, cutoff, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, domain.PaymentStatusSettling, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
