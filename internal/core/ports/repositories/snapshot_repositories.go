package repositories

import (
	"context"

	"github.com/branchpay/teller_backend/internal/core/domain"
)

// SnapshotReader defines read operations for transaction snapshots.
type SnapshotReader interface {
	// FindSnapshotByID retrieves a snapshot bundle by its identifier.
	FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.TransactionSnapshot, error)

	// FindLatestSnapshotByTransactionID retrieves the most recent snapshot for
	// a transaction.
	FindLatestSnapshotByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionSnapshot, error)
}

// SnapshotWriter persists immutable snapshot bundles.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot) error
}

// SnapshotRepositoryFacade combines snapshot repository interfaces.
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}
