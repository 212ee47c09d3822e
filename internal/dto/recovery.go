package dto

import (
	"time"

	"github.com/branchpay/teller_backend/internal/core/domain"
)

// RollbackRequest asks for a transaction to be rolled back.
type RollbackRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RollbackEligibility reports whether a rollback is allowed and, when not,
// the specific reason it is refused.
type RollbackEligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// RollbackResult reports a completed rollback.
type RollbackResult struct {
	TransactionID  string    `json:"transactionID"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason"`
	RolledBackAt   time.Time `json:"rolledBackAt"`
}

// RetryRequest asks for a failed transaction to be retried.
type RetryRequest struct {
	MaxAttempts int `json:"maxAttempts" binding:"omitempty,min=1"`
}

// RetryResult reports the outcome of a retry loop.
type RetryResult struct {
	TransactionID string `json:"transactionID"`
	Success       bool   `json:"success"`
	Attempts      int    `json:"attempts"`
	FinalStatus   string `json:"finalStatus"`
}

// SnapshotResponse identifies a stored snapshot bundle.
type SnapshotResponse struct {
	SnapshotID    string    `json:"snapshotID"`
	TransactionID string    `json:"transactionID"`
	TakenAt       time.Time `json:"takenAt"`
}

// AuditEntryResponse is the API shape of one audit record.
type AuditEntryResponse struct {
	EntryID      string    `json:"entryID"`
	Action       string    `json:"action"`
	EntityType   string    `json:"entityType"`
	EntityID     string    `json:"entityID"`
	BeforeStatus string    `json:"beforeStatus,omitempty"`
	AfterStatus  string    `json:"afterStatus,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	ActorID      string    `json:"actorID"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// ToAuditEntryResponse maps a domain audit entry to its API shape.
func ToAuditEntryResponse(e domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		EntryID:      e.EntryID,
		Action:       string(e.Action),
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		BeforeStatus: e.BeforeStatus,
		AfterStatus:  e.AfterStatus,
		Reason:       e.Reason,
		ActorID:      e.ActorID,
		OccurredAt:   e.OccurredAt,
	}
}

// ListAuditParams holds filter and pagination parameters for the audit trail.
type ListAuditParams struct {
	EntityID  string
	Limit     int
	NextToken *string
}

// ListAuditResponse is a paginated page of audit entries.
type ListAuditResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
