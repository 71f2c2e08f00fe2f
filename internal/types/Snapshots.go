/*

This file contains the vault state snapshot records captured by the monitor
loop and served by the web API.

*/

package types

import "time"

// StrategyBalance is one strategy's holdings inside a snapshot.
type StrategyBalance struct {
	Name      string `json:"name"`
	Balance   string `json:"balance"` // Base-unit integer string
	IsDefault bool   `json:"is_default"`
}

// VaultSnapshot captures the vault's full accounting state at one instant.
type VaultSnapshot struct {
	SnapshotID        int64             `json:"snapshot_id,omitempty"` // Auto-incremented by DB
	Timestamp         time.Time         `json:"timestamp"`
	VaultName         string            `json:"vault_name"`
	AssetDenom        string            `json:"asset_denom"`
	ShareDenom        string            `json:"share_denom"`
	TotalManagedValue string            `json:"total_managed_value"`
	IdleBalance       string            `json:"idle_balance"`
	ShareSupply       string            `json:"share_supply"`
	SharePrice        string            `json:"share_price"`
	DefaultStrategy   string            `json:"default_strategy,omitempty"`
	Strategies        []StrategyBalance `json:"strategies"`
}
