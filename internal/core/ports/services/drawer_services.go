package services

import (
	"context"

	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// DrawerSvcFacade is the denomination ledger service surface.
type DrawerSvcFacade interface {
	// RecordEntries persists denomination entries for a transaction and
	// returns the total amount recorded. Entries with negative quantities or
	// face values outside the ladder are rejected outright.
	RecordEntries(ctx context.Context, transactionID string, entries []domain.DenominationEntry, actorID string) (decimal.Decimal, error)

	// GetDrawerBalance returns the operator's per-denomination inventory.
	GetDrawerBalance(ctx context.Context, operatorID string) (*dto.DrawerResponse, error)

	// AdjustDrawer applies a manual add/subtract to one denomination. A
	// subtract that exceeds the on-hand quantity fails with
	// ErrInsufficientInventory and never drives the balance negative.
	AdjustDrawer(ctx context.Context, operatorID string, req dto.AdjustDrawerRequest, actorID string) (*dto.DrawerResponse, error)

	// ComputeChange computes an exact change breakdown constrained by the
	// supplied inventory, or the operator's drawer when none is supplied.
	ComputeChange(ctx context.Context, operatorID string, req dto.ComputeChangeRequest) (*dto.ComputeChangeResponse, error)
}
