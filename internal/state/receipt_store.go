// ./internal/state/receipt_store.go
package state

import (
	"database/sql"
	"fmt"

	"github.com/meridianlabs/mvm/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveOperationReceipt journals one vault operation to the database.
func SaveOperationReceipt(receipt types.OperationReceipt) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	query := `
		INSERT INTO operation_receipts (
			operation_id, operation_timestamp, operation_type,
			caller, receiver, owner_account,
			asset_amount, share_amount, strategy,
			success, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING receipt_id;
	`

	var receiptID int64
	err := DB.QueryRow(
		query,
		receipt.OperationID, receipt.Timestamp, string(receipt.Type),
		nullIfEmpty(receipt.Caller), nullIfEmpty(receipt.Receiver), nullIfEmpty(receipt.Owner),
		nullIfEmpty(receipt.AssetAmount), nullIfEmpty(receipt.ShareAmount), nullIfEmpty(receipt.Strategy),
		receipt.Success, nullIfEmpty(receipt.Message),
	).Scan(&receiptID)
	if err != nil {
		return 0, fmt.Errorf("failed to save operation receipt: %w", err)
	}

	log.Debug().
		Int64("receipt_id", receiptID).
		Str("operation_id", receipt.OperationID).
		Str("type", string(receipt.Type)).
		Bool("success", receipt.Success).
		Msg("Operation receipt saved")

	return receiptID, nil
}

// GetRecentReceipts retrieves operation receipts, newest first.
func GetRecentReceipts(limit int) ([]types.OperationReceipt, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 20 // Default limit
	}

	query := `
		SELECT
			receipt_id, operation_id, operation_timestamp, operation_type,
			caller, receiver, owner_account,
			asset_amount, share_amount, strategy,
			success, message
		FROM operation_receipts
		ORDER BY operation_timestamp DESC
		LIMIT $1
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query recent receipts")
		return nil, fmt.Errorf("failed to query recent receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]types.OperationReceipt, 0, limit)
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	return receipts, nil
}

// GetReceiptByOperationID retrieves a single receipt by its operation UUID.
func GetReceiptByOperationID(operationID string) (*types.OperationReceipt, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT
			receipt_id, operation_id, operation_timestamp, operation_type,
			caller, receiver, owner_account,
			asset_amount, share_amount, strategy,
			success, message
		FROM operation_receipts
		WHERE operation_id = $1
	`

	receipt, err := scanReceipt(DB.QueryRow(query, operationID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("operation %s not found", operationID)
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// OperationStats aggregates journal totals for the dashboard.
type OperationStats struct {
	TotalOperations      int `json:"total_operations"`
	SuccessfulOperations int `json:"successful_operations"`
	FailedOperations     int `json:"failed_operations"`
	Deposits             int `json:"deposits"`
	Withdrawals          int `json:"withdrawals"`
	Redemptions          int `json:"redemptions"`
	Rebalances           int `json:"rebalances"`
}

// GetOperationStats aggregates counts over the whole operation journal.
func GetOperationStats() (*OperationStats, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE success) AS successful,
			COUNT(*) FILTER (WHERE NOT success) AS failed,
			COUNT(*) FILTER (WHERE operation_type = 'DEPOSIT') AS deposits,
			COUNT(*) FILTER (WHERE operation_type = 'WITHDRAW') AS withdrawals,
			COUNT(*) FILTER (WHERE operation_type = 'REDEEM') AS redemptions,
			COUNT(*) FILTER (WHERE operation_type = 'REBALANCE') AS rebalances
		FROM operation_receipts;
	`

	var stats OperationStats
	err := DB.QueryRow(query).Scan(
		&stats.TotalOperations, &stats.SuccessfulOperations, &stats.FailedOperations,
		&stats.Deposits, &stats.Withdrawals, &stats.Redemptions, &stats.Rebalances,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate operation stats: %w", err)
	}

	return &stats, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReceipt maps one operation_receipts row into a receipt, converting
// nullable columns.
func scanReceipt(row rowScanner) (types.OperationReceipt, error) {
	var receipt types.OperationReceipt
	var operationType string
	var caller, receiver, owner, assetAmount, shareAmount, strategy, message sql.NullString

	err := row.Scan(
		&receipt.ReceiptID, &receipt.OperationID, &receipt.Timestamp, &operationType,
		&caller, &receiver, &owner,
		&assetAmount, &shareAmount, &strategy,
		&receipt.Success, &message,
	)
	if err == sql.ErrNoRows {
		return receipt, err
	}
	if err != nil {
		return receipt, fmt.Errorf("failed to scan receipt row: %w", err)
	}

	receipt.Type = types.OperationType(operationType)
	receipt.Caller = caller.String
	receipt.Receiver = receiver.String
	receipt.Owner = owner.String
	receipt.AssetAmount = assetAmount.String
	receipt.ShareAmount = shareAmount.String
	receipt.Strategy = strategy.String
	receipt.Message = message.String

	return receipt, nil
}

// nullIfEmpty maps empty strings to SQL NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
