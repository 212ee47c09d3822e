package repositories

import (
	"context"
	"time"

	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingBundle is the atomic unit a payment posting persists. Either every
// piece is written and every drawer delta applied, or nothing is.
type PostingBundle struct {
	Transaction   domain.Transaction
	Items         []domain.TransactionItem
	Denominations []domain.DenominationEntry
	// DrawerDeltas maps a denomination key (decimal string form) to the signed
	// quantity change for the posting operator's drawer.
	DrawerDeltas map[string]int
	// CardDebit, when set, decrements the card account balance as part of the
	// same unit of work.
	CardDebit *CardDebit
	Audit     domain.AuditEntry
}

// CardDebit describes the balance movement a card payment applies.
type CardDebit struct {
	AccountID string
	Amount    decimal.Decimal
}

// RollbackBundle is the atomic unit a rollback persists: the updated
// transaction row (status + appended notes), the drawer reversal deltas and
// the audit record.
type RollbackBundle struct {
	Transaction  domain.Transaction
	DrawerDeltas map[string]int
	CardCredit   *CardDebit // Reverses the original debit when present
	Audit        domain.AuditEntry
}

// TransactionReader defines read operations for teller transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction without its line items.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindItemsByTransactionID retrieves all line items for a transaction.
	FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)

	// ListTransactionsByBranch retrieves a paginated list of transactions using
	// token-based pagination. It returns the transactions, a token for the
	// next page, and an error.
	ListTransactionsByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumCompletedByType totals completed/posted transactions of a type, used
	// for running credit-limit checks. Sums are computed from rows, never from
	// cached counters.
	SumCompletedByType(ctx context.Context, transactionType domain.TransactionType) (decimal.Decimal, error)

	// SumCompletedByTypeSince totals completed/posted transactions of a type
	// created at or after the given instant.
	SumCompletedByTypeSince(ctx context.Context, transactionType domain.TransactionType, since time.Time) (decimal.Decimal, error)
}

// TransactionWriter defines write operations for teller transactions.
type TransactionWriter interface {
	// SavePosting persists a posting bundle within one database transaction.
	SavePosting(ctx context.Context, bundle PostingBundle) error

	// SaveDraft persists a draft transaction and its items.
	SaveDraft(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem) error

	// UpdateTransactionStatus moves a transaction between statuses. The update
	// is conditional on the expected current status so concurrent transitions
	// cannot race; a mismatch returns ErrStateConflict.
	UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, postedAt *time.Time, updatedBy string, updatedAt time.Time) error

	// ApplyRollback persists a rollback bundle within one database transaction.
	ApplyRollback(ctx context.Context, bundle RollbackBundle) error

	// RestoreFromSnapshot rewrites a transaction, its items and denomination
	// entries from a snapshot within one database transaction.
	RestoreFromSnapshot(ctx context.Context, snapshot domain.TransactionSnapshot, audit domain.AuditEntry) error

	// NextDailySequence atomically increments and returns the daily counter
	// for a numbering scope (transaction number prefix or receipt numbers).
	NextDailySequence(ctx context.Context, scope string, day time.Time) (int, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
