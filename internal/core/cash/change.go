package cash

import (
	"fmt"
	"math"
	"strings"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// Unlimited marks a denomination with no practical quantity constraint.
const Unlimited = math.MaxInt32

// Inventory maps a denomination face value (canonical string form) to the
// quantity on hand. Missing keys mean zero.
type Inventory map[string]int

// Key returns the canonical inventory key for a face value.
func Key(denomination decimal.Decimal) string {
	return denomination.String()
}

// Available returns the on-hand quantity for a face value.
func (inv Inventory) Available(denomination decimal.Decimal) int {
	return inv[Key(denomination)]
}

// ChangeLine is one denomination row of a computed change breakdown.
type ChangeLine struct {
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
}

// Deficiency names a denomination the drawer is short of.
type Deficiency struct {
	Denomination decimal.Decimal `json:"denomination"`
	Needed       int             `json:"needed"`
	Available    int             `json:"available"`
}

// UnreachableChangeError reports that exact change could not be assembled,
// including which denominations fell short against the ideal breakdown.
type UnreachableChangeError struct {
	Target    decimal.Decimal
	Remaining decimal.Decimal
	Short     []Deficiency
}

func (e *UnreachableChangeError) Error() string {
	if len(e.Short) == 0 {
		return fmt.Sprintf("change of %s not representable: %s remaining", e.Target, e.Remaining)
	}
	parts := make([]string, len(e.Short))
	for i, s := range e.Short {
		parts[i] = fmt.Sprintf("%s (need %d, have %d)", s.Denomination, s.Needed, s.Available)
	}
	return fmt.Sprintf("change of %s not representable, short on: %s", e.Target, strings.Join(parts, ", "))
}

func (e *UnreachableChangeError) Unwrap() error {
	return apperrors.ErrUnreachableChange
}

// ComputeChange assembles target using a greedy largest-first pass over the
// ladder, constrained by the available inventory. Either the returned lines
// sum exactly to target (within the 0.01 tolerance) or an
// UnreachableChangeError is returned; a partial breakdown is never returned.
//
// The greedy pass is exact for this currency ladder. Other ladders must be
// re-verified before reuse; greedy change is not optimal in general.
func ComputeChange(profile Profile, target decimal.Decimal, available Inventory) ([]ChangeLine, error) {
	if target.IsNegative() {
		return nil, fmt.Errorf("%w: change amount cannot be negative", apperrors.ErrValidation)
	}

	lines := make([]ChangeLine, 0, 4)
	remaining := target
	for _, denom := range profile.Denominations {
		if remaining.LessThan(denom) {
			continue
		}
		avail := available.Available(denom)
		if avail <= 0 {
			continue
		}
		use := int(remaining.Div(denom).IntPart())
		if use > avail {
			use = avail
		}
		if use == 0 {
			continue
		}
		amount := denom.Mul(decimal.NewFromInt(int64(use)))
		lines = append(lines, ChangeLine{Denomination: denom, Quantity: use, Amount: amount})
		remaining = remaining.Sub(amount)
	}

	if !money.WithinTolerance(remaining, decimal.Zero) {
		return nil, &UnreachableChangeError{
			Target:    target,
			Remaining: remaining,
			Short:     deficiencies(profile, target, available),
		}
	}
	return lines, nil
}

// deficiencies compares the unconstrained greedy breakdown of target against
// the available inventory and lists each denomination that falls short.
func deficiencies(profile Profile, target decimal.Decimal, available Inventory) []Deficiency {
	var short []Deficiency
	remaining := target
	for _, denom := range profile.Denominations {
		if remaining.LessThan(denom) {
			continue
		}
		needed := int(remaining.Div(denom).IntPart())
		if needed == 0 {
			continue
		}
		if avail := available.Available(denom); avail < needed {
			short = append(short, Deficiency{Denomination: denom, Needed: needed, Available: avail})
		}
		remaining = remaining.Sub(denom.Mul(decimal.NewFromInt(int64(needed))))
	}
	return short
}
