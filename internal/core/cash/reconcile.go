package cash

import (
	"fmt"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	"github.com/branchpay/teller_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// SumEntries totals the amounts of all entries of the given type.
func SumEntries(entries []domain.DenominationEntry, entryType domain.DenominationEntryType) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.EntryType == entryType {
			total = total.Add(e.Denomination.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
	}
	return total
}

// ValidateEntries rejects entries with negative quantities, face values
// outside the ladder, unknown entry types, or an amount that disagrees with
// denomination * quantity.
func ValidateEntries(profile Profile, entries []domain.DenominationEntry) error {
	for _, e := range entries {
		if !e.EntryType.IsValid() {
			return fmt.Errorf("%w: unknown entry type %q", apperrors.ErrValidation, e.EntryType)
		}
		if e.Quantity < 0 {
			return fmt.Errorf("%w: negative quantity %d for denomination %s", apperrors.ErrValidation, e.Quantity, e.Denomination)
		}
		if !profile.Contains(e.Denomination) {
			return fmt.Errorf("%w: unknown denomination %s", apperrors.ErrValidation, e.Denomination)
		}
		expected := e.Denomination.Mul(decimal.NewFromInt(int64(e.Quantity)))
		if !e.Amount.IsZero() && !e.Amount.Equal(expected) {
			return fmt.Errorf("%w: entry amount %s does not equal %s x %d", apperrors.ErrValidation, e.Amount, e.Denomination, e.Quantity)
		}
	}
	return nil
}

// Reconcile verifies that the received-cash entries sum to the declared cash
// amount within tolerance, and that the declared cash covers the total owed.
func Reconcile(entries []domain.DenominationEntry, cashReceived, totalOwed decimal.Decimal) error {
	received := SumEntries(entries, domain.EntryReceived)
	if !money.WithinTolerance(received, cashReceived) {
		return fmt.Errorf("%w: denomination entries sum to %s, declared cash received is %s",
			apperrors.ErrReconciliation, received, cashReceived)
	}
	if cashReceived.Add(money.Tolerance).LessThan(totalOwed) {
		return fmt.Errorf("%w: cash received %s is less than total owed %s",
			apperrors.ErrReconciliation, cashReceived, totalOwed)
	}
	return nil
}
