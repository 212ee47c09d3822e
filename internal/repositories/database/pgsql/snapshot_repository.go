package pgsql

import (
	"context"
	"errors"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/branchpay/teller_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for transaction snapshots.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSnapshotRepository implements portsrepo.SnapshotRepositoryFacade
var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

// SaveSnapshot persists an immutable snapshot bundle.
func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot) error {
	m, err := mapping.ToModelSnapshot(snapshot)
	if err != nil {
		return apperrors.NewAppError(500, "failed to serialize snapshot for transaction "+snapshot.TransactionID, err)
	}

	query := `
		INSERT INTO snapshots (snapshot_id, transaction_id, payload, taken_at, taken_by)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := r.Pool.Exec(ctx, query, m.SnapshotID, m.TransactionID, m.Payload, m.TakenAt, m.TakenBy); err != nil {
		return apperrors.NewAppError(500, "failed to insert snapshot for transaction "+snapshot.TransactionID, err)
	}
	return nil
}

func (r *PgxSnapshotRepository) findSnapshot(ctx context.Context, query string, arg string) (*domain.TransactionSnapshot, error) {
	var m models.TransactionSnapshot
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&m.SnapshotID,
		&m.TransactionID,
		&m.Payload,
		&m.TakenAt,
		&m.TakenBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find snapshot "+arg, err)
	}

	snapshot, err := mapping.ToDomainSnapshot(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to deserialize snapshot "+m.SnapshotID, err)
	}
	return &snapshot, nil
}

// FindSnapshotByID retrieves a snapshot bundle by its identifier.
func (r *PgxSnapshotRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.TransactionSnapshot, error) {
	query := `
		SELECT snapshot_id, transaction_id, payload, taken_at, taken_by
		FROM snapshots
		WHERE snapshot_id = $1;
	`
	return r.findSnapshot(ctx, query, snapshotID)
}

// FindLatestSnapshotByTransactionID retrieves the most recent snapshot for a transaction.
func (r *PgxSnapshotRepository) FindLatestSnapshotByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionSnapshot, error) {
	query := `
		SELECT snapshot_id, transaction_id, payload, taken_at, taken_by
		FROM snapshots
		WHERE transaction_id = $1
		ORDER BY taken_at DESC, snapshot_id DESC
		LIMIT 1;
	`
	return r.findSnapshot(ctx, query, transactionID)
}
