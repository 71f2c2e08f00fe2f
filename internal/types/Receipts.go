/*

This file contains the operation receipt records journaled for every mutating
vault operation. Amounts are base-unit integer strings so they survive JSON
and NUMERIC round-trips without precision loss.

*/

package types

import "time"

// OperationType labels the mutating vault operations in the journal.
type OperationType string

const (
	OperationDeposit        OperationType = "DEPOSIT"
	OperationWithdraw       OperationType = "WITHDRAW"
	OperationRedeem         OperationType = "REDEEM"
	OperationAddStrategy    OperationType = "ADD_STRATEGY"
	OperationRemoveStrategy OperationType = "REMOVE_STRATEGY"
	OperationUpdateDefault  OperationType = "UPDATE_DEFAULT"
	OperationRebalance      OperationType = "REBALANCE"
)

// OperationReceipt records one vault operation and its outcome.
type OperationReceipt struct {
	ReceiptID   int64         `json:"receipt_id,omitempty"` // Auto-incremented by DB
	OperationID string        `json:"operation_id"`         // UUID assigned at the service edge
	Type        OperationType `json:"type"`
	Caller      string        `json:"caller,omitempty"`
	Receiver    string        `json:"receiver,omitempty"`
	Owner       string        `json:"owner,omitempty"`
	AssetAmount string        `json:"asset_amount,omitempty"`
	ShareAmount string        `json:"share_amount,omitempty"`
	Strategy    string        `json:"strategy,omitempty"` // Strategy display name if the operation has one
	Success     bool          `json:"success"`
	Message     string        `json:"message,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
