package models

import "time"

// AuditEntry is the database row shape for the audit_entries table.
// Rows are append-only; there is no update path.
type AuditEntry struct {
	EntryID      string
	Action       string
	EntityType   string
	EntityID     string
	BeforeStatus *string
	AfterStatus  *string
	Reason       string
	ActorID      string
	OccurredAt   time.Time
}
