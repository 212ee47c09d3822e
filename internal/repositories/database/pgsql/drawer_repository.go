package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/branchpay/teller_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxDrawerRepository struct {
	BaseRepository
}

// newPgxDrawerRepository creates a new repository for cash-drawer inventory.
func newPgxDrawerRepository(pool *pgxpool.Pool) portsrepo.DrawerRepositoryFacade {
	return &PgxDrawerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDrawerRepository implements portsrepo.DrawerRepositoryFacade
var _ portsrepo.DrawerRepositoryFacade = (*PgxDrawerRepository)(nil)

// GetDrawerBalances retrieves the per-denomination balances for an operator.
func (r *PgxDrawerRepository) GetDrawerBalances(ctx context.Context, operatorID string) ([]domain.DrawerBalance, error) {
	query := `
		SELECT operator_id, denomination, quantity, created_at, created_by, last_updated_at, last_updated_by
		FROM drawer_balances
		WHERE operator_id = $1
		ORDER BY denomination DESC;
	`
	rows, err := r.Pool.Query(ctx, query, operatorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query drawer balances for operator "+operatorID, err)
	}
	defer rows.Close()

	balances := []domain.DrawerBalance{}
	for rows.Next() {
		var b models.DrawerBalance
		err := rows.Scan(
			&b.OperatorID,
			&b.Denomination,
			&b.Quantity,
			&b.CreatedAt,
			&b.CreatedBy,
			&b.LastUpdatedAt,
			&b.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan drawer balance row for operator "+operatorID, err)
		}
		balances = append(balances, mapping.ToDomainDrawerBalance(b))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating drawer balance rows for operator "+operatorID, err)
	}

	return balances, nil
}

// FindEntriesByTransactionID retrieves all denomination entries recorded for a transaction.
func (r *PgxDrawerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.DenominationEntry, error) {
	query := `
		SELECT entry_id, transaction_id, entry_type, denomination, quantity, amount, created_at, created_by, last_updated_at, last_updated_by
		FROM denomination_entries
		WHERE transaction_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query denomination entries for transaction "+transactionID, err)
	}
	defer rows.Close()

	entries := []domain.DenominationEntry{}
	for rows.Next() {
		var e models.DenominationEntry
		err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.EntryType,
			&e.Denomination,
			&e.Quantity,
			&e.Amount,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan denomination entry row for transaction "+transactionID, err)
		}
		entries = append(entries, mapping.ToDomainDenominationEntry(e))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating denomination entry rows for transaction "+transactionID, err)
	}

	return entries, nil
}

// AdjustDenomination applies a signed quantity delta to one denomination of an
// operator's drawer via a single conditional statement.
func (r *PgxDrawerRepository) AdjustDenomination(ctx context.Context, operatorID string, denomination decimal.Decimal, delta int, updatedBy string, updatedAt time.Time) error {
	return adjustDenominationExec(ctx, r.Pool, operatorID, denomination.String(), delta, updatedBy, updatedAt)
}

// RecordEntries persists denomination entries and applies their drawer effect
// within one database transaction.
func (r *PgxDrawerRepository) RecordEntries(ctx context.Context, operatorID string, entries []domain.DenominationEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	if err := insertDenominationEntriesTx(ctx, tx, entries); err != nil {
		return err
	}

	deltas := map[string]int{}
	var updatedBy string
	var updatedAt time.Time
	for _, e := range entries {
		updatedBy = e.CreatedBy
		updatedAt = e.CreatedAt
		switch e.EntryType {
		case domain.EntryReceived:
			deltas[e.Denomination.String()] += e.Quantity
		case domain.EntryChange:
			deltas[e.Denomination.String()] -= e.Quantity
		}
	}
	if err := applyDrawerDeltasTx(ctx, tx, operatorID, deltas, updatedBy, updatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// execer covers both *pgxpool.Pool and pgx.Tx for single-statement writes.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// adjustDenominationExec runs the conditional adjustment. Positive deltas
// upsert the row; negative deltas update only when the quantity stays
// non-negative, so concurrent subtractions serialize at the row and a short
// drawer surfaces as ErrInsufficientInventory instead of a negative count.
func adjustDenominationExec(ctx context.Context, db execer, operatorID, denomination string, delta int, updatedBy string, updatedAt time.Time) error {
	if delta >= 0 {
		query := `
			INSERT INTO drawer_balances (operator_id, denomination, quantity, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $4, $5)
			ON CONFLICT (operator_id, denomination)
			DO UPDATE SET quantity = drawer_balances.quantity + $3, last_updated_at = $4, last_updated_by = $5;
		`
		if _, err := db.Exec(ctx, query, operatorID, denomination, delta, updatedAt, updatedBy); err != nil {
			return apperrors.NewAppError(500, "failed to add to drawer denomination "+denomination, err)
		}
		return nil
	}

	query := `
		UPDATE drawer_balances
		SET quantity = quantity + $3, last_updated_at = $4, last_updated_by = $5
		WHERE operator_id = $1 AND denomination = $2 AND quantity + $3 >= 0;
	`
	tag, err := db.Exec(ctx, query, operatorID, denomination, delta, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to subtract from drawer denomination "+denomination, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "insufficient drawer inventory for denomination "+denomination, apperrors.ErrInsufficientInventory)
	}
	return nil
}

// applyDrawerDeltasTx applies a set of signed denomination deltas inside an
// existing database transaction. Denominations are processed in a stable order
// to keep lock acquisition deterministic across concurrent postings.
func applyDrawerDeltasTx(ctx context.Context, tx pgx.Tx, operatorID string, deltas map[string]int, updatedBy string, updatedAt time.Time) error {
	keys := make([]string, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, denomination := range keys {
		delta := deltas[denomination]
		if delta == 0 {
			continue
		}
		if err := adjustDenominationExec(ctx, tx, operatorID, denomination, delta, updatedBy, updatedAt); err != nil {
			return err
		}
	}
	return nil
}

// insertDenominationEntriesTx batch-inserts denomination entries inside an
// existing database transaction.
func insertDenominationEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.DenominationEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO denomination_entries (entry_id, transaction_id, entry_type, denomination, quantity, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, entry := range entries {
		m := mapping.ToModelDenominationEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.TransactionID,
			m.EntryType,
			m.Denomination,
			m.Quantity,
			m.Amount,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute denomination entry batch", err)
	}
	return nil
}
