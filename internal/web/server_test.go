package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/mvm/internal/ledger"
	"github.com/meridianlabs/mvm/internal/strategies"
	"github.com/meridianlabs/mvm/internal/vault"
)

const (
	testAssetDenom = "uusdc"
	testShareDenom = "uvshare"
	adminAccount   = "admin"
	vaultAccount   = "vault:main"
)

func newTestServer(t *testing.T) (*WebServer, *ledger.Bank, *vault.Vault) {
	t.Helper()

	bank := ledger.NewBank()
	v, err := vault.NewVault(vault.Config{
		Name:       "test-vault",
		Account:    vaultAccount,
		Admin:      adminAccount,
		AssetDenom: testAssetDenom,
		ShareDenom: testShareDenom,
		Assets:     bank,
		Shares:     bank,
	})
	require.NoError(t, err)

	ws, err := NewWebServer(Config{
		Port:      "8080",
		Vault:     v,
		Bank:      bank,
		Directory: strategies.NewDirectory(),
	})
	require.NoError(t, err)

	return ws, bank, v
}

func doRequest(t *testing.T, ws *WebServer, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ws.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func fundAccount(t *testing.T, bank *ledger.Bank, account string, amount int64) {
	t.Helper()
	require.NoError(t, bank.Mint(account, sdk.NewCoin(testAssetDenom, sdkmath.NewInt(amount))))
}

func TestDepositEndpoint(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 1000)

	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "250", Receiver: "alice"}, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "250", body["shares_minted"])
	assert.Equal(t, testShareDenom, body["share_denom"])
	assert.NotEmpty(t, body["operation_id"])
	assert.Equal(t, int64(250), v.ShareSupply().Int64())
}

func TestDepositEndpointRejectsBadRequests(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 10)

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/vault/deposit", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		ws.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing amount", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
			depositRequest{Caller: "alice", Receiver: "alice"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non integer amount", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
			depositRequest{Caller: "alice", Amount: "12.5", Receiver: "alice"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative amount", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
			depositRequest{Caller: "alice", Amount: "-5", Receiver: "alice"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
			depositRequest{Caller: "alice", Amount: "11", Receiver: "alice"}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	assert.True(t, v.ShareSupply().IsZero())
}

func TestWithdrawAndRedeemEndpoints(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 1000)

	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "500", Receiver: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, ws, http.MethodPost, "/api/vault/withdraw",
		withdrawRequest{Amount: "100", Receiver: "bob", Owner: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "100", body["shares_burned"])
	assert.Equal(t, "100", body["amount_paid"])
	assert.Equal(t, int64(100), bank.BalanceOf("bob", testAssetDenom).Int64())

	rec = doRequest(t, ws, http.MethodPost, "/api/vault/redeem",
		redeemRequest{Shares: "150", Receiver: "alice", Owner: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Equal(t, "150", body["amount_paid"])
	assert.Equal(t, int64(250), v.ShareSupply().Int64())
}

func TestWithdrawEndpointLiquidityFailure(t *testing.T) {
	ws, bank, _ := newTestServer(t)
	fundAccount(t, bank, "alice", 100)

	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "100", Receiver: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// More shares than the owner holds: the burn fails inside the ledger.
	rec = doRequest(t, ws, http.MethodPost, "/api/vault/withdraw",
		withdrawRequest{Amount: "101", Receiver: "alice", Owner: "alice"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminStrategyLifecycle(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 100)

	t.Run("non admin cannot add", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/strategies",
			addStrategyRequest{Caller: "mallory", Name: "intruder"}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin adds strategy", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/strategies",
			addStrategyRequest{Caller: adminAccount, Name: "lending"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, v.StrategyCount())
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/strategies",
			addStrategyRequest{Caller: adminAccount, Name: "lending"}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/strategies",
			addStrategyRequest{Caller: adminAccount, Name: ""}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("strategies listing shows it", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodGet, "/api/vault/strategies", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("set default requires admin header", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPut, "/api/admin/strategies/lending/default",
			nil, map[string]string{callerHeader: "mallory"})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doRequest(t, ws, http.MethodPut, "/api/admin/strategies/lending/default",
			nil, map[string]string{callerHeader: adminAccount})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("deposits route to the new default", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
			depositRequest{Caller: "alice", Amount: "100", Receiver: "alice"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, v.IdleBalance().IsZero())
	})

	t.Run("remove unknown strategy", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodDelete, "/api/admin/strategies/ghost",
			nil, map[string]string{callerHeader: adminAccount})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("remove recalls funds", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodDelete, "/api/admin/strategies/lending",
			nil, map[string]string{callerHeader: adminAccount})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, "100", body["idle_balance"])
		assert.Equal(t, 0, v.StrategyCount())
	})
}

func TestRebalanceEndpoint(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 100)

	for _, name := range []string{"first", "second"} {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/strategies",
			addStrategyRequest{Caller: adminAccount, Name: name}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "100", Receiver: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("unknown target", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/rebalance",
			rebalanceRequest{Caller: adminAccount, Targets: []string{"ghost"}, Amounts: []string{"10"}}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad amount", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/rebalance",
			rebalanceRequest{Caller: adminAccount, Targets: []string{"first"}, Amounts: []string{"ten"}}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("length mismatch", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/rebalance",
			rebalanceRequest{Caller: adminAccount, Targets: []string{"first", "second"}, Amounts: []string{"10"}}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("redistributes", func(t *testing.T) {
		rec := doRequest(t, ws, http.MethodPost, "/api/admin/rebalance",
			rebalanceRequest{Caller: adminAccount, Targets: []string{"first", "second"}, Amounts: []string{"60", "40"}}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, "0", body["idle_balance"])
		assert.Equal(t, int64(100), v.TotalManagedValue().Int64())
	})
}

func TestVaultSummaryEndpoint(t *testing.T) {
	ws, bank, _ := newTestServer(t)
	fundAccount(t, bank, "alice", 100)

	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "100", Receiver: "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, ws, http.MethodGet, "/api/vault/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "test-vault", body["vault_name"])
	assert.Equal(t, testAssetDenom, body["asset_denom"])
	assert.Equal(t, "100", body["total_managed_value"])
	assert.Equal(t, "100", body["share_supply"])
	assert.Equal(t, "1.000000000000000000", body["share_price"])
}

func TestHealthDegradedWithoutDatabase(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doRequest(t, ws, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "DEGRADED", body["status"])
}

func TestOperationLookupValidation(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doRequest(t, ws, http.MethodGet, "/api/operations/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJournalUnavailableDoesNotBlockOperations(t *testing.T) {
	ws, bank, v := newTestServer(t)
	fundAccount(t, bank, "alice", 100)

	// With no database the receipt cannot be journaled, but the vault
	// operation itself must still clear.
	rec := doRequest(t, ws, http.MethodPost, "/api/vault/deposit",
		depositRequest{Caller: "alice", Amount: "100", Receiver: "alice"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(100), v.ShareSupply().Int64())

	// The journal read endpoints surface the unavailability instead.
	rec = doRequest(t, ws, http.MethodGet, "/api/operations", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
