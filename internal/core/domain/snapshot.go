package domain

import "time"

// TransactionSnapshot is an immutable capture of a transaction, its items and
// its denomination entries, used by data-recovery restore.
type TransactionSnapshot struct {
	SnapshotID    string              `json:"snapshotID"` // Primary Key (UUID)
	TransactionID string              `json:"transactionID"`
	Transaction   Transaction         `json:"transaction"`
	Items         []TransactionItem   `json:"items"`
	Denominations []DenominationEntry `json:"denominations"`
	TakenAt       time.Time           `json:"takenAt"`
	TakenBy       string              `json:"takenBy"`
}
