package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/meridianlabs/mvm/internal/ledger"
	"github.com/meridianlabs/mvm/internal/logger"
	"github.com/meridianlabs/mvm/internal/state"
	"github.com/meridianlabs/mvm/internal/strategies"
	"github.com/meridianlabs/mvm/internal/types"
	"github.com/meridianlabs/mvm/internal/vault"
)

var webLogger = logger.GetForComponent("web_server")

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var dashboardHTML []byte

// callerHeader asserts the caller identity on requests without a JSON body.
// Identity is asserted, not authenticated; the vault's gate decides.
const callerHeader = "X-Vault-Caller"

// WebServer handles HTTP requests for vault operations and telemetry.
type WebServer struct {
	router    *mux.Router
	port      string
	vault     *vault.Vault
	bank      *ledger.Bank
	directory *strategies.Directory
}

// Config holds the dependencies for creating a new web server.
type Config struct {
	Port      string
	Vault     *vault.Vault
	Bank      *ledger.Bank
	Directory *strategies.Directory
}

// NewWebServer creates a new web server instance.
func NewWebServer(cfg Config) (*WebServer, error) {
	if cfg.Vault == nil {
		return nil, fmt.Errorf("vault cannot be nil")
	}
	if cfg.Bank == nil {
		return nil, fmt.Errorf("bank cannot be nil")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("strategy directory cannot be nil")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	server := &WebServer{
		router:    mux.NewRouter(),
		port:      cfg.Port,
		vault:     cfg.Vault,
		bank:      cfg.Bank,
		directory: cfg.Directory,
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Static files
	staticHandler := http.FileServer(http.FS(staticFiles))
	ws.router.PathPrefix("/static/").Handler(http.StripPrefix("/", staticHandler))

	// Dashboard routes
	ws.router.HandleFunc("/", ws.handleDashboard).Methods("GET")
	ws.router.HandleFunc("/dashboard", ws.handleDashboard).Methods("GET")

	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/vault/summary", ws.handleGetVaultSummary).Methods("GET")
	api.HandleFunc("/vault/strategies", ws.handleGetStrategies).Methods("GET")
	api.HandleFunc("/vault/deposit", ws.handleDeposit).Methods("POST")
	api.HandleFunc("/vault/withdraw", ws.handleWithdraw).Methods("POST")
	api.HandleFunc("/vault/redeem", ws.handleRedeem).Methods("POST")
	api.HandleFunc("/operations", ws.handleGetOperations).Methods("GET")
	api.HandleFunc("/operations/{id}", ws.handleGetOperation).Methods("GET")
	api.HandleFunc("/snapshots", ws.handleGetSnapshots).Methods("GET")
	api.HandleFunc("/stats", ws.handleGetStats).Methods("GET")
	api.HandleFunc("/admin/strategies", ws.handleAddStrategy).Methods("POST")
	api.HandleFunc("/admin/strategies/{name}", ws.handleRemoveStrategy).Methods("DELETE")
	api.HandleFunc("/admin/strategies/{name}/default", ws.handleSetDefaultStrategy).Methods("PUT")
	api.HandleFunc("/admin/rebalance", ws.handleRebalance).Methods("POST")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// Router exposes the route table for tests.
func (ws *WebServer) Router() http.Handler {
	return ws.router
}

// --- Request payloads ---

type depositRequest struct {
	Caller   string `json:"caller"`
	Amount   string `json:"amount"`
	Receiver string `json:"receiver"`
}

type withdrawRequest struct {
	Amount   string `json:"amount"`
	Receiver string `json:"receiver"`
	Owner    string `json:"owner"`
}

type redeemRequest struct {
	Shares   string `json:"shares"`
	Receiver string `json:"receiver"`
	Owner    string `json:"owner"`
}

type addStrategyRequest struct {
	Caller string `json:"caller"`
	Name   string `json:"name"`
}

type rebalanceRequest struct {
	Caller  string   `json:"caller"`
	Targets []string `json:"targets"`
	Amounts []string `json:"amounts"`
}

// --- Read endpoints ---

// handleHealth returns comprehensive server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	// Get runtime memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Get database connection status
	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
	}

	overallStatus := "OK"
	statusCode := http.StatusOK
	if !dbHealthy {
		overallStatus = "DEGRADED"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":            runtime.Version(),
			"goroutines_count":   runtime.NumGoroutine(),
			"total_alloc_bytes":  memStats.TotalAlloc,
			"heap_objects_count": memStats.HeapObjects,
			"alloc_bytes":        memStats.Alloc,
			"sys_bytes":          memStats.Sys,
			"gc_cycles":          memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "mvm-vault-manager",
			"version": "1.0.0",
		},
		"vault_status": map[string]interface{}{
			"database_healthy":    dbHealthy,
			"vault_name":          ws.vault.Name(),
			"total_managed_value": ws.vault.TotalManagedValue().String(),
			"share_supply":        ws.vault.ShareSupply().String(),
			"strategy_count":      ws.vault.StrategyCount(),
		},
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleDashboard serves the main dashboard HTML
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(dashboardHTML)
}

// handleGetVaultSummary returns the vault's live accounting state
func (ws *WebServer) handleGetVaultSummary(w http.ResponseWriter, r *http.Request) {
	snapshot := ws.vault.Snapshot()

	response := map[string]interface{}{
		"vault_name":          snapshot.VaultName,
		"asset_denom":         snapshot.AssetDenom,
		"share_denom":         snapshot.ShareDenom,
		"total_managed_value": snapshot.TotalManagedValue,
		"idle_balance":        snapshot.IdleBalance,
		"share_supply":        snapshot.ShareSupply,
		"share_price":         snapshot.SharePrice,
		"default_strategy":    snapshot.DefaultStrategy,
		"strategy_count":      len(snapshot.Strategies),
		"timestamp":           snapshot.Timestamp,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetStrategies returns registered strategies in drain order
func (ws *WebServer) handleGetStrategies(w http.ResponseWriter, r *http.Request) {
	snapshot := ws.vault.Snapshot()

	response := map[string]interface{}{
		"strategies": snapshot.Strategies,
		"count":      len(snapshot.Strategies),
		"default":    snapshot.DefaultStrategy,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetOperations returns paginated operation receipts
func (ws *WebServer) handleGetOperations(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20)

	receipts, err := state.GetRecentReceipts(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent operations")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve operations")
		return
	}

	response := map[string]interface{}{
		"operations": receipts,
		"count":      len(receipts),
		"limit":      limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetOperation returns a specific operation receipt by its UUID
func (ws *WebServer) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	operationID := vars["id"]

	if _, err := uuid.Parse(operationID); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid operation ID")
		return
	}

	receipt, err := state.GetReceiptByOperationID(operationID)
	if err != nil {
		webLogger.Error().Err(err).Str("operationId", operationID).Msg("Failed to get operation")
		ws.writeErrorResponse(w, http.StatusNotFound, "Operation not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, receipt)
}

// handleGetSnapshots returns paginated vault snapshots
func (ws *WebServer) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20)

	snapshots, err := state.GetRecentSnapshots(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent snapshots")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve snapshots")
		return
	}

	response := map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
		"limit":     limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetStats returns aggregated journal statistics
func (ws *WebServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := state.GetOperationStats()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get operation stats")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	response := map[string]interface{}{
		"stats":     stats,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// --- Depositor endpoints ---

// handleDeposit pulls assets from the caller and mints shares to the receiver
func (ws *WebServer) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	minted, opErr := ws.vault.Deposit(req.Caller, amount, req.Receiver)

	receipt := newReceipt(types.OperationDeposit)
	receipt.Caller = req.Caller
	receipt.Receiver = req.Receiver
	receipt.AssetAmount = amount.String()
	if opErr == nil {
		receipt.ShareAmount = minted.String()
	}
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	response := map[string]interface{}{
		"operation_id":  receipt.OperationID,
		"shares_minted": minted.String(),
		"share_denom":   ws.vault.ShareDenom(),
		"share_price":   ws.vault.SharePrice().String(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleWithdraw pays out an exact asset amount, charging the owner's shares
func (ws *WebServer) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	burned, opErr := ws.vault.Withdraw(amount, req.Receiver, req.Owner)

	receipt := newReceipt(types.OperationWithdraw)
	receipt.Receiver = req.Receiver
	receipt.Owner = req.Owner
	receipt.AssetAmount = amount.String()
	if opErr == nil {
		receipt.ShareAmount = burned.String()
	}
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	response := map[string]interface{}{
		"operation_id":  receipt.OperationID,
		"shares_burned": burned.String(),
		"amount_paid":   amount.String(),
		"asset_denom":   ws.vault.AssetDenom(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleRedeem retires an exact share count for its current asset value
func (ws *WebServer) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	shares, err := parseAmount(req.Shares)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payout, opErr := ws.vault.Redeem(shares, req.Receiver, req.Owner)

	receipt := newReceipt(types.OperationRedeem)
	receipt.Receiver = req.Receiver
	receipt.Owner = req.Owner
	receipt.ShareAmount = shares.String()
	if opErr == nil {
		receipt.AssetAmount = payout.String()
	}
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	response := map[string]interface{}{
		"operation_id": receipt.OperationID,
		"amount_paid":  payout.String(),
		"asset_denom":  ws.vault.AssetDenom(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// --- Administrator endpoints ---

// handleAddStrategy creates a simulated strategy and registers it with the vault
func (ws *WebServer) handleAddStrategy(w http.ResponseWriter, r *http.Request) {
	var req addStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Name == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Strategy name is required")
		return
	}
	if _, exists := ws.directory.Lookup(req.Name); exists {
		ws.writeErrorResponse(w, http.StatusConflict, "Strategy name is already in use")
		return
	}

	sim, err := strategies.NewSimStrategy(
		req.Name, "strategy:"+req.Name, ws.vault.Account(), ws.vault.AssetDenom(), ws.bank)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opErr := ws.vault.AddStrategy(req.Caller, sim)

	receipt := newReceipt(types.OperationAddStrategy)
	receipt.Caller = req.Caller
	receipt.Strategy = req.Name
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	if err := ws.directory.Register(sim); err != nil {
		webLogger.Error().Err(err).Str("strategy", req.Name).Msg("Failed to index registered strategy")
	}

	response := map[string]interface{}{
		"operation_id": receipt.OperationID,
		"strategy":     req.Name,
		"registered":   ws.vault.StrategyCount(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleRemoveStrategy recalls a strategy's funds and deregisters it
func (ws *WebServer) handleRemoveStrategy(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	caller := r.Header.Get(callerHeader)

	sim, ok := ws.directory.Lookup(name)
	if !ok {
		ws.writeErrorResponse(w, http.StatusNotFound, "Strategy not found")
		return
	}

	opErr := ws.vault.RemoveStrategy(caller, sim)

	receipt := newReceipt(types.OperationRemoveStrategy)
	receipt.Caller = caller
	receipt.Strategy = name
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	ws.directory.Remove(name)

	response := map[string]interface{}{
		"operation_id": receipt.OperationID,
		"strategy":     name,
		"registered":   ws.vault.StrategyCount(),
		"idle_balance": ws.vault.IdleBalance().String(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleSetDefaultStrategy points fresh deposits at a registered strategy
func (ws *WebServer) handleSetDefaultStrategy(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	caller := r.Header.Get(callerHeader)

	sim, ok := ws.directory.Lookup(name)
	if !ok {
		ws.writeErrorResponse(w, http.StatusNotFound, "Strategy not found")
		return
	}

	opErr := ws.vault.UpdateDefaultStrategy(caller, sim)

	receipt := newReceipt(types.OperationUpdateDefault)
	receipt.Caller = caller
	receipt.Strategy = name
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	response := map[string]interface{}{
		"operation_id":     receipt.OperationID,
		"default_strategy": name,
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleRebalance recalls all strategy funds and redistributes them
func (ws *WebServer) handleRebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	targets := make([]vault.Strategy, len(req.Targets))
	for i, name := range req.Targets {
		sim, ok := ws.directory.Lookup(name)
		if !ok {
			ws.writeErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Strategy %q not found", name))
			return
		}
		targets[i] = sim
	}

	amounts := make([]sdkmath.Int, len(req.Amounts))
	for i, raw := range req.Amounts {
		amount, err := parseAmount(raw)
		if err != nil {
			ws.writeErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Amount at index %d: %s", i, err.Error()))
			return
		}
		amounts[i] = amount
	}

	opErr := ws.vault.Rebalance(req.Caller, targets, amounts)

	receipt := newReceipt(types.OperationRebalance)
	receipt.Caller = req.Caller
	receipt.Message = fmt.Sprintf("%d targets", len(req.Targets))
	ws.journalReceipt(receipt, opErr)

	if opErr != nil {
		ws.writeErrorResponse(w, statusForVaultError(opErr), opErr.Error())
		return
	}

	response := map[string]interface{}{
		"operation_id": receipt.OperationID,
		"targets":      req.Targets,
		"idle_balance": ws.vault.IdleBalance().String(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// --- Helpers ---

// newReceipt starts a receipt with a fresh operation UUID.
func newReceipt(opType types.OperationType) types.OperationReceipt {
	return types.OperationReceipt{
		OperationID: uuid.New().String(),
		Type:        opType,
		Timestamp:   time.Now().UTC(),
	}
}

// journalReceipt finalizes and persists a receipt. Journal failures are logged
// and never fail the request.
func (ws *WebServer) journalReceipt(receipt types.OperationReceipt, opErr error) {
	receipt.Success = opErr == nil
	if opErr != nil {
		receipt.Message = opErr.Error()
	}

	if _, err := state.SaveOperationReceipt(receipt); err != nil {
		webLogger.Error().
			Err(err).
			Str("operation_id", receipt.OperationID).
			Str("type", string(receipt.Type)).
			Msg("Failed to journal operation receipt")
	}
}

// parseAmount parses a base-unit integer amount from its string form.
func parseAmount(raw string) (sdkmath.Int, error) {
	if raw == "" {
		return sdkmath.ZeroInt(), errors.New("amount is required")
	}
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("amount %q is not a valid integer", raw)
	}
	return amount, nil
}

// parseLimit reads the limit query parameter with a bounded default.
func parseLimit(r *http.Request, fallback int) int {
	limit := fallback
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}
	return limit
}

// statusForVaultError maps the vault error taxonomy onto HTTP status codes.
func statusForVaultError(err error) int {
	switch {
	case errors.Is(err, vault.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, vault.ErrNotRegistered),
		errors.Is(err, vault.ErrTargetNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, vault.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, vault.ErrInsufficientLiquidity),
		errors.Is(err, vault.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, vault.ErrZeroShares),
		errors.Is(err, vault.ErrInvalidAmount),
		errors.Is(err, vault.ErrInvalidAsset),
		errors.Is(err, vault.ErrNilStrategy),
		errors.Is(err, vault.ErrLengthMismatch),
		errors.Is(err, vault.ErrEmptyAccount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+callerHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
