package postgres

import (
	"context"
	"fmt"
)

var schema = []struct {
	name string
	ddl  string
}{
	{"payments", `
		CREATE TABLE IF NOT EXISTS payments (
			id               UUID PRIMARY KEY,
			reference        TEXT NOT NULL,
			idempotency_key  TEXT NOT NULL,
			amount           NUMERIC(24,8) NOT NULL,
			from_currency    TEXT NOT NULL,
			to_currency      TEXT NOT NULL,
			sender           JSONB NOT NULL,
			recipient        JSONB NOT NULL,
			status           TEXT NOT NULL,
			route            JSONB,
			locked_rate      NUMERIC(24,12),
			rate_locked_at   TIMESTAMPTZ,
			converted_amount NUMERIC(32,8),
			fees             NUMERIC(24,8) NOT NULL DEFAULT 0,
			reservation_id   UUID,
			execution_ref    TEXT NOT NULL DEFAULT '',
			settlement_ref   TEXT NOT NULL DEFAULT '',
			failure_code     TEXT NOT NULL DEFAULT '',
			failure_reason   TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL,
			completed_at     TIMESTAMPTZ
		)`},
	{"payments_status_idx", `
		CREATE INDEX IF NOT EXISTS payments_status_updated_idx ON payments (status, updated_at)`},
	{"liquidity_pools", `
		CREATE TABLE IF NOT EXISTS liquidity_pools (
			id            TEXT PRIMARY KEY,
			from_currency TEXT NOT NULL,
			to_currency   TEXT NOT NULL,
			total         NUMERIC(24,8) NOT NULL,
			available     NUMERIC(24,8) NOT NULL,
			reserved      NUMERIC(24,8) NOT NULL,
			status        TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			UNIQUE (from_currency, to_currency),
			CHECK (available >= 0 AND reserved >= 0 AND total = available + reserved)
		)`},
	{"liquidity_reservations", `
		CREATE TABLE IF NOT EXISTS liquidity_reservations (
			id          UUID PRIMARY KEY,
			payment_id  UUID NOT NULL,
			pool_id     TEXT NOT NULL REFERENCES liquidity_pools (id),
			amount      NUMERIC(24,8) NOT NULL,
			currency    TEXT NOT NULL,
			status      TEXT NOT NULL,
			reserved_at TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL,
			closed_at   TIMESTAMPTZ
		)`},
	{"liquidity_reservations_expiry_idx", `
		CREATE INDEX IF NOT EXISTS liquidity_reservations_expiry_idx ON liquidity_reservations (status, expires_at)`},
	{"failed_tasks", `
		CREATE TABLE IF NOT EXISTS failed_tasks (
			id            UUID PRIMARY KEY,
			task_type     TEXT NOT NULL,
			payload       JSONB NOT NULL,
			error         TEXT NOT NULL,
			retry_count   INTEGER NOT NULL DEFAULT 0,
			max_retries   INTEGER NOT NULL,
			status        TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			last_retry_at TIMESTAMPTZ,
			resolved_at   TIMESTAMPTZ
		)`},
	{"saga_audit", `
		CREATE TABLE IF NOT EXISTS saga_audit (
			seq        BIGSERIAL PRIMARY KEY,
			id         UUID NOT NULL UNIQUE,
			payment_id UUID NOT NULL,
			stage      TEXT NOT NULL,
			outcome    TEXT NOT NULL,
			status     TEXT NOT NULL,
			latency_ms BIGINT NOT NULL,
			error_code TEXT NOT NULL DEFAULT '',
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`},
	{"saga_audit_payment_idx", `
		CREATE INDEX IF NOT EXISTS saga_audit_payment_idx ON saga_audit (payment_id, seq)`},
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool Pool) error {
	for _, s := range schema {
		if _, err := pool.Exec(ctx, s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}
	return nil
}
