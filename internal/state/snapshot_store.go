// ./internal/state/snapshot_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/meridianlabs/mvm/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveVaultSnapshot saves a complete vault snapshot to the database.
func SaveVaultSnapshot(snapshot types.VaultSnapshot) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	strategiesJSON, err := json.Marshal(snapshot.Strategies)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal strategies: %w", err)
	}

	query := `
		INSERT INTO vault_snapshots (
			snapshot_timestamp, vault_name, asset_denom, share_denom,
			total_managed_value, idle_balance, share_supply, share_price,
			default_strategy, strategies
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err = DB.QueryRow(
		query,
		snapshot.Timestamp, snapshot.VaultName, snapshot.AssetDenom, snapshot.ShareDenom,
		snapshot.TotalManagedValue, snapshot.IdleBalance, snapshot.ShareSupply, snapshot.SharePrice,
		nullIfEmpty(snapshot.DefaultStrategy), strategiesJSON,
	).Scan(&snapshotID)

	if err != nil {
		return 0, fmt.Errorf("failed to save vault snapshot: %w", err)
	}

	log.Info().
		Int64("snapshot_id", snapshotID).
		Str("total_managed_value", snapshot.TotalManagedValue).
		Str("share_supply", snapshot.ShareSupply).
		Msg("Vault snapshot saved to database")

	return snapshotID, nil
}

// GetRecentSnapshots retrieves vault snapshots, newest first.
func GetRecentSnapshots(limit int) ([]types.VaultSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}

	query := `
		SELECT
			snapshot_id, snapshot_timestamp, vault_name, asset_denom, share_denom,
			total_managed_value, idle_balance, share_supply, share_price,
			default_strategy, strategies
		FROM vault_snapshots
		ORDER BY snapshot_timestamp DESC
		LIMIT $1
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query recent snapshots")
		return nil, fmt.Errorf("failed to query recent snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]types.VaultSnapshot, 0, limit)
	for rows.Next() {
		var snapshot types.VaultSnapshot
		var defaultStrategy sql.NullString
		var strategiesJSON []byte

		err := rows.Scan(
			&snapshot.SnapshotID, &snapshot.Timestamp, &snapshot.VaultName,
			&snapshot.AssetDenom, &snapshot.ShareDenom,
			&snapshot.TotalManagedValue, &snapshot.IdleBalance,
			&snapshot.ShareSupply, &snapshot.SharePrice,
			&defaultStrategy, &strategiesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		snapshot.DefaultStrategy = defaultStrategy.String
		if len(strategiesJSON) > 0 {
			if err := json.Unmarshal(strategiesJSON, &snapshot.Strategies); err != nil {
				return nil, fmt.Errorf("failed to unmarshal strategies: %w", err)
			}
		}

		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}
