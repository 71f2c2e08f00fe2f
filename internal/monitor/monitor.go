package monitor

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meridianlabs/mvm/internal/logger"
	"github.com/meridianlabs/mvm/internal/state"
	"github.com/meridianlabs/mvm/internal/types"
	"github.com/meridianlabs/mvm/internal/vault"
)

// Monitor periodically captures vault accounting snapshots, persists them to
// the journal, and logs share price drift between runs.
type Monitor struct {
	logger zerolog.Logger
	vault  *vault.Vault

	// Runtime state
	runCount  int
	lastPrice sdkmath.LegacyDec
}

// Config holds the configuration for creating a new Monitor instance.
type Config struct {
	Vault *vault.Vault
}

// NewMonitor creates a monitor with dependency validation.
func NewMonitor(cfg Config) (*Monitor, error) {
	if cfg.Vault == nil {
		return nil, fmt.Errorf("vault cannot be nil")
	}

	return &Monitor{
		logger: logger.GetForComponent("monitor"),
		vault:  cfg.Vault,
	}, nil
}

// RunLoop starts the monitor loop with the specified interval. The first
// capture runs immediately, then one per tick until the context is canceled.
func (m *Monitor) RunLoop(ctx context.Context, interval time.Duration) {
	m.logger.Info().Dur("interval", interval).Msg("Starting monitor loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.RunOnce()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Monitor loop stopped due to context cancellation")
			return
		case <-ticker.C:
			m.RunOnce()
		}
	}
}

// RunOnce captures one snapshot, logs the vault state and any share price
// drift, and persists the snapshot.
func (m *Monitor) RunOnce() {
	m.runCount++

	// Unique run ID for tracing logs across the capture
	runID := uuid.New().String()
	runLogger := m.logger.With().Str("run_id", runID).Int("run", m.runCount).Logger()

	snapshot := m.vault.Snapshot()
	price := m.vault.SharePrice()

	runLogger.Info().
		Str("totalManagedValue", snapshot.TotalManagedValue).
		Str("idleBalance", snapshot.IdleBalance).
		Str("shareSupply", snapshot.ShareSupply).
		Str("sharePrice", snapshot.SharePrice).
		Int("strategies", len(snapshot.Strategies)).
		Msg("Vault snapshot captured")

	if !m.lastPrice.IsNil() && !price.Equal(m.lastPrice) {
		runLogger.Info().
			Str("previousPrice", m.lastPrice.String()).
			Str("currentPrice", price.String()).
			Str("drift", price.Sub(m.lastPrice).String()).
			Msg("Share price moved since last run")
	}
	m.lastPrice = price

	m.saveSnapshot(runLogger, snapshot)
}

// saveSnapshot persists the snapshot to the journal. Journal failures are
// logged and never block monitoring.
func (m *Monitor) saveSnapshot(runLogger zerolog.Logger, snapshot types.VaultSnapshot) {
	snapshotID, err := state.SaveVaultSnapshot(snapshot)
	if err != nil {
		runLogger.Error().Err(err).Msg("Failed to save vault snapshot to database")
		return
	}
	runLogger.Info().Int64("snapshot_id", snapshotID).Msg("Vault snapshot saved successfully")
}
