package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/branchpay/teller_backend/internal/utils/mapping"
	"github.com/branchpay/teller_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for teller transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, transaction_number, receipt_number, transaction_type, status, total_amount,
		payment_method, customer_reference, card_account_id, operator_id, branch_id, posted_at, notes,
		created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, transaction_number, receipt_number, transaction_type, status, total_amount,
		payment_method, customer_reference, card_account_id, operator_id, branch_id, posted_at, notes,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
`

func transactionInsertArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.TransactionNumber,
		m.ReceiptNumber,
		m.TransactionType,
		m.Status,
		m.TotalAmount,
		m.PaymentMethod,
		m.CustomerReference,
		m.CardAccountID,
		m.OperatorID,
		m.BranchID,
		m.PostedAt,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.ReceiptNumber,
		&m.TransactionType,
		&m.Status,
		&m.TotalAmount,
		&m.PaymentMethod,
		&m.CustomerReference,
		&m.CardAccountID,
		&m.OperatorID,
		&m.BranchID,
		&m.PostedAt,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertTransactionItemsTx batch-inserts line items inside an existing
// database transaction.
func insertTransactionItemsTx(ctx context.Context, tx pgx.Tx, items []domain.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO transaction_items (
			item_id, transaction_id, description, amount, quantity,
			service_reference, provider_code, reference_number, metadata,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, item := range items {
		m := mapping.ToModelTransactionItem(item)
		batch.Queue(query,
			m.ItemID,
			m.TransactionID,
			m.Description,
			m.Amount,
			m.Quantity,
			m.ServiceReference,
			m.ProviderCode,
			m.ReferenceNumber,
			m.Metadata,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction item batch", err)
	}
	return nil
}

// SavePosting persists a posting bundle within one database transaction: the
// transaction row, its items, its denomination entries, the drawer deltas, an
// optional card debit and the audit record. Any failure aborts the whole unit.
func (r *PgxTransactionRepository) SavePosting(ctx context.Context, bundle portsrepo.PostingBundle) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	modelTxn := mapping.ToModelTransaction(bundle.Transaction)
	if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(modelTxn)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	if err := insertTransactionItemsTx(ctx, tx, bundle.Items); err != nil {
		return err
	}
	if err := insertDenominationEntriesTx(ctx, tx, bundle.Denominations); err != nil {
		return err
	}
	if err := applyDrawerDeltasTx(ctx, tx, bundle.Transaction.OperatorID, bundle.DrawerDeltas, bundle.Transaction.CreatedBy, bundle.Transaction.CreatedAt); err != nil {
		return err
	}

	if bundle.CardDebit != nil {
		if err := applyCardBalanceDeltaTx(ctx, tx, bundle.CardDebit.AccountID, bundle.CardDebit.Amount.Neg(), bundle.Transaction.CreatedBy, bundle.Transaction.CreatedAt); err != nil {
			return err
		}
	}

	if err := insertAuditEntryTx(ctx, tx, bundle.Audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveDraft persists a draft transaction and its items.
func (r *PgxTransactionRepository) SaveDraft(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTransaction(txn)
	if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(modelTxn)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert draft transaction "+modelTxn.TransactionID, err)
	}
	if err := insertTransactionItemsTx(ctx, tx, items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateTransactionStatus moves a transaction between statuses. The update is
// conditional on the expected current status; a concurrent transition that got
// there first leaves zero rows affected and surfaces as ErrStateConflict.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, postedAt *time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3, posted_at = COALESCE($4, posted_at), last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(from), string(to), postedAt, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the transaction does not exist or it is no longer in `from`.
		if _, findErr := r.FindTransactionByID(ctx, transactionID); findErr != nil {
			return findErr
		}
		return apperrors.NewAppError(409, "transaction "+transactionID+" is not in status "+string(from), apperrors.ErrStateConflict)
	}
	return nil
}

// ApplyRollback persists a rollback bundle within one database transaction:
// the status flip with appended notes, the drawer reversal and the optional
// card re-credit. The status update is conditional on the pre-rollback status
// so a rollback cannot apply twice.
func (r *PgxTransactionRepository) ApplyRollback(ctx context.Context, bundle portsrepo.RollbackBundle) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	txn := bundle.Transaction
	query := `
		UPDATE transactions
		SET status = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND status NOT IN ($6, $7);
	`
	tag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		string(domain.StatusRolledBack),
		txn.Notes,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
		string(domain.StatusRolledBack),
		string(domain.StatusCancelled),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction "+txn.TransactionID+" rolled back", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "transaction "+txn.TransactionID+" was already rolled back or cancelled", apperrors.ErrStateConflict)
	}

	if err := applyDrawerDeltasTx(ctx, tx, txn.OperatorID, bundle.DrawerDeltas, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		return err
	}
	if bundle.CardCredit != nil {
		if err := applyCardBalanceDeltaTx(ctx, tx, bundle.CardCredit.AccountID, bundle.CardCredit.Amount, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
			return err
		}
	}
	if err := insertAuditEntryTx(ctx, tx, bundle.Audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RestoreFromSnapshot rewrites a transaction, its items and denomination
// entries from a snapshot within one database transaction. Existing items and
// entries for the transaction are replaced wholesale.
func (r *PgxTransactionRepository) RestoreFromSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(snapshot.Transaction)
	query := `
		UPDATE transactions
		SET transaction_number = $2, receipt_number = $3, transaction_type = $4, status = $5,
		    total_amount = $6, payment_method = $7, customer_reference = $8, card_account_id = $9,
		    posted_at = $10, notes = $11, last_updated_at = $12, last_updated_by = $13
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionNumber,
		m.ReceiptNumber,
		m.TransactionType,
		m.Status,
		m.TotalAmount,
		m.PaymentMethod,
		m.CustomerReference,
		m.CardAccountID,
		m.PostedAt,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to restore transaction "+m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		// The row was lost entirely; recreate it from the snapshot.
		if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(m)...); err != nil {
			return apperrors.NewAppError(500, "failed to recreate transaction "+m.TransactionID+" from snapshot", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear items of transaction "+m.TransactionID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM denomination_entries WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear denomination entries of transaction "+m.TransactionID, err)
	}
	if err := insertTransactionItemsTx(ctx, tx, snapshot.Items); err != nil {
		return err
	}
	if err := insertDenominationEntriesTx(ctx, tx, snapshot.Denominations); err != nil {
		return err
	}
	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// NextDailySequence atomically increments and returns the daily counter for a
// numbering scope. The upsert serializes concurrent callers at the row, so two
// postings can never draw the same number.
func (r *PgxTransactionRepository) NextDailySequence(ctx context.Context, scope string, day time.Time) (int, error) {
	query := `
		INSERT INTO daily_sequences (scope, day, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, day)
		DO UPDATE SET value = daily_sequences.value + 1
		RETURNING value;
	`
	var value int
	if err := r.Pool.QueryRow(ctx, query, scope, day.Format("2006-01-02")).Scan(&value); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance daily sequence for scope "+scope, err)
	}
	return value, nil
}

// FindTransactionByID retrieves a transaction without its line items.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	domainTxn := mapping.ToDomainTransaction(m)
	return &domainTxn, nil
}

// FindItemsByTransactionID retrieves all line items for a transaction.
func (r *PgxTransactionRepository) FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	query := `
		SELECT item_id, transaction_id, description, amount, quantity,
		       service_reference, provider_code, reference_number, metadata,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for transaction "+transactionID, err)
	}
	defer rows.Close()

	items := []domain.TransactionItem{}
	for rows.Next() {
		var m models.TransactionItem
		err := rows.Scan(
			&m.ItemID,
			&m.TransactionID,
			&m.Description,
			&m.Amount,
			&m.Quantity,
			&m.ServiceReference,
			&m.ProviderCode,
			&m.ReferenceNumber,
			&m.Metadata,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for transaction "+transactionID, err)
		}
		items = append(items, mapping.ToDomainTransactionItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for transaction "+transactionID, err)
	}

	return items, nil
}

// ListTransactionsByBranch retrieves a paginated list of transactions for a
// branch using token-based pagination, newest first.
func (r *PgxTransactionRepository) ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE branch_id = $1`
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	args := []any{branchID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for branch "+branchID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for branch "+branchID, err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for branch "+branchID, err)
	}

	var newNextToken *string
	if len(transactions) == fetchLimit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newNextToken = &token
	}

	return transactions, newNextToken, nil
}

// Completed money is what counts against limits: both synchronous completions
// and two-step postings that reached Posted.
const completedStatusFilter = `status IN ('POSTED', 'COMPLETED')`

// SumCompletedByType totals completed transactions of a type. Sums come from
// the rows themselves, never from cached counters.
func (r *PgxTransactionRepository) SumCompletedByType(ctx context.Context, transactionType domain.TransactionType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM transactions
		WHERE transaction_type = $1 AND ` + completedStatusFilter + `;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, string(transactionType)).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum completed transactions of type "+string(transactionType), err)
	}
	return sum, nil
}

// SumCompletedByTypeSince totals completed transactions of a type created at
// or after the given instant.
func (r *PgxTransactionRepository) SumCompletedByTypeSince(ctx context.Context, transactionType domain.TransactionType, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM transactions
		WHERE transaction_type = $1 AND created_at >= $2 AND ` + completedStatusFilter + `;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, string(transactionType), since).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum completed transactions of type "+string(transactionType)+" since cutoff", err)
	}
	return sum, nil
}

// applyCardBalanceDeltaTx moves a card account balance inside an existing
// database transaction. Negative deltas (payments) must not take the balance
// below zero.
func applyCardBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE card_accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND balance + $2 >= 0;
	`
	tag, err := tx.Exec(ctx, query, accountID, delta, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust balance of card account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409, "card account "+accountID+" missing or balance would go negative", apperrors.ErrValidation)
	}
	return nil
}
