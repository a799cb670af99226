package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"payflow/config"
	"payflow/internal/adapter/storage/memory"
	"payflow/internal/service"
	"payflow/internal/worker"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T, operatorHash string) *config.Config {
	t.Helper()
	yaml := fmt.Sprintf(`
server:
  mode: test
storage:
  driver: memory
  idempotency: memory
simulator:
  latency: 0s
  failure_rate: 0
admin:
  jwt_secret: app-test-secret
  operators:
    ops: '%s'
pools:
  - id: usd-ngn
    from: USD
    to: NGN
    total: "1000000"
`, operatorHash)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	hash, err := service.NewArgon2HashService(service.Argon2Params{}).Hash("correct-horse")
	require.NoError(t, err)

	a, err := New(context.Background(), loadTestConfig(t, hash), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func doJSON(t *testing.T, a *App, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestApp_PaymentCompletesEndToEnd(t *testing.T) {
	a := newTestApp(t)

	payment := map[string]any{
		"reference":     "inv-42",
		"amount":        "250.00",
		"from_currency": "USD",
		"to_currency":   "NGN",
		"sender":        map[string]string{"name": "Ada", "country": "US", "account": "111"},
		"recipient":     map[string]string{"name": "Bola", "country": "NG", "account": "222", "institution": "First Bank"},
	}

	w, resp := doJSON(t, a, http.MethodPost, "/api/v1/payments", payment, map[string]string{"Idempotency-Key": "e2e-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	assert.Equal(t, "COMPLETED", data["status"])
	paymentID := data["payment_id"].(string)

	w, resp = doJSON(t, a, http.MethodGet, "/api/v1/payments/"+paymentID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := resp["data"].(map[string]any)
	assert.Equal(t, "COMPLETED", snap["status"])
	assert.NotEmpty(t, snap["settlement_ref"])
	assert.NotEmpty(t, snap["trail"])

	// same key again is a duplicate
	w, _ = doJSON(t, a, http.MethodPost, "/api/v1/payments", payment, map[string]string{"Idempotency-Key": "e2e-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApp_OperatorTokenUnlocksAdminRoutes(t *testing.T) {
	a := newTestApp(t)

	w, _ := doJSON(t, a, http.MethodPost, "/api/v1/auth/token", map[string]string{"username": "ops", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := doJSON(t, a, http.MethodPost, "/api/v1/auth/token", map[string]string{"username": "ops", "password": "correct-horse"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := resp["data"].(map[string]any)["token"].(string)
	auth := map[string]string{"Authorization": "Bearer " + token}

	w, resp = doJSON(t, a, http.MethodGet, "/api/v1/admin/pools/usd-ngn", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	pool := resp["data"].(map[string]any)["pool"].(map[string]any)
	assert.Equal(t, "usd-ngn", pool["id"])

	w, _ = doJSON(t, a, http.MethodGet, "/api/v1/admin/dlq", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, a, http.MethodGet, "/api/v1/admin/breakers", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_BuildsAllWorkers(t *testing.T) {
	a := newTestApp(t)

	names := make([]string, 0, len(a.Workers))
	for _, w := range a.Workers {
		names = append(names, w.Name())
	}
	assert.ElementsMatch(t, []string{worker.NameReservationSweep, worker.NameRebalanceScan, worker.NameStaleRecovery}, names)
}

func TestSeedPools_KeepsExistingBalances(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLiquidityStore()
	seeds := []config.PoolSeed{{ID: "usd-kes", From: "USD", To: "KES", Total: decimal.NewFromInt(5000)}}

	require.NoError(t, seedPools(ctx, repo, seeds, zerolog.Nop()))

	seeds[0].Total = decimal.NewFromInt(1)
	require.NoError(t, seedPools(ctx, repo, seeds, zerolog.Nop()))

	pool, err := repo.GetPool(ctx, "usd-kes")
	require.NoError(t, err)
	require.NotNil(t, pool)
	assert.True(t, pool.Total.Equal(decimal.NewFromInt(5000)))
	assert.True(t, pool.Available.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "USD-KES", pool.Corridor())
}
