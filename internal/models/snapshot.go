package models

import "time"

// TransactionSnapshot is the database row shape for the snapshots table.
// The captured transaction, items and denomination entries are stored as a
// single JSONB payload; snapshots are read back whole or not at all.
type TransactionSnapshot struct {
	SnapshotID    string
	TransactionID string
	Payload       []byte
	TakenAt       time.Time
	TakenBy       string
}
