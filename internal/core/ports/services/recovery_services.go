package services

import (
	"context"

	"github.com/branchpay/teller_backend/internal/dto"
)

// RollbackSvc owns rollback eligibility and execution.
type RollbackSvc interface {
	// CanRollback reports whether the transaction may be rolled back, with a
	// specific user-facing reason when it may not.
	CanRollback(ctx context.Context, transactionID string) (*dto.RollbackEligibility, error)

	// Rollback marks the transaction RolledBack, reverses its drawer effects
	// and writes the audit record, all-or-nothing.
	Rollback(ctx context.Context, transactionID, reason, actorID string) (*dto.RollbackResult, error)
}

// RetrySvc re-drives failed transactions with bounded exponential backoff.
type RetrySvc interface {
	Retry(ctx context.Context, transactionID string, maxAttempts int, actorID string) (*dto.RetryResult, error)
}

// SnapshotSvc captures and restores immutable transaction bundles.
type SnapshotSvc interface {
	Snapshot(ctx context.Context, transactionID, actorID string) (*dto.SnapshotResponse, error)
	Restore(ctx context.Context, snapshotID, actorID string) (*dto.TransactionResponse, error)
}

// AuditReaderSvc exposes the append-only audit trail.
type AuditReaderSvc interface {
	ListAudit(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}

// RecoverySvcFacade combines the rollback/retry coordinator interfaces.
type RecoverySvcFacade interface {
	RollbackSvc
	RetrySvc
	SnapshotSvc
	AuditReaderSvc
}
