package repositories

import (
	"context"
	"time"

	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DrawerReader defines read operations for cash-drawer inventory.
type DrawerReader interface {
	// GetDrawerBalances retrieves the per-denomination balances for an operator.
	GetDrawerBalances(ctx context.Context, operatorID string) ([]domain.DrawerBalance, error)

	// FindEntriesByTransactionID retrieves all denomination entries recorded
	// for a transaction.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.DenominationEntry, error)
}

// DrawerWriter defines write operations for cash-drawer inventory.
type DrawerWriter interface {
	// AdjustDenomination applies a signed quantity delta to one denomination
	// of an operator's drawer. The check-and-write is a single conditional
	// statement so concurrent subtractions serialize at the row; a delta that
	// would drive the quantity negative returns ErrInsufficientInventory.
	AdjustDenomination(ctx context.Context, operatorID string, denomination decimal.Decimal, delta int, updatedBy string, updatedAt time.Time) error

	// RecordEntries persists immutable denomination entries and applies their
	// drawer effect (Received adds, Change subtracts, Payment is neutral)
	// within one database transaction.
	RecordEntries(ctx context.Context, operatorID string, entries []domain.DenominationEntry) error
}

// DrawerRepositoryFacade combines all drawer repository interfaces.
type DrawerRepositoryFacade interface {
	DrawerReader
	DrawerWriter
}
