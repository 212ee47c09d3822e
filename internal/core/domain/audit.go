package domain

import "time"

// AuditAction names the operation recorded in the audit trail.
type AuditAction string

const (
	AuditTransactionPosted AuditAction = "TRANSACTION_POSTED"
	AuditTransactionCancel AuditAction = "TRANSACTION_CANCELLED"
	AuditRollbackApplied   AuditAction = "ROLLBACK_APPLIED"
	AuditRollbackFailed    AuditAction = "ROLLBACK_FAILED"
	AuditRetryAttempt      AuditAction = "RETRY_ATTEMPT"
	AuditSnapshotTaken     AuditAction = "SNAPSHOT_TAKEN"
	AuditSnapshotRestored  AuditAction = "SNAPSHOT_RESTORED"
	AuditDrawerAdjusted    AuditAction = "DRAWER_ADJUSTED"
)

// AuditEntry is one append-only record of a state-changing action.
// Entries are never mutated or deleted.
type AuditEntry struct {
	EntryID      string      `json:"entryID"` // Primary Key (UUID)
	Action       AuditAction `json:"action"`
	EntityType   string      `json:"entityType"` // e.g. "transaction", "drawer"
	EntityID     string      `json:"entityID"`
	BeforeStatus string      `json:"beforeStatus"` // Empty when not a status change
	AfterStatus  string      `json:"afterStatus"`
	Reason       string      `json:"reason"`
	ActorID      string      `json:"actorID"`
	OccurredAt   time.Time   `json:"occurredAt"`
}
