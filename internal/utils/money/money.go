package money

import "github.com/shopspring/decimal"

// Tolerance is the fixed comparison tolerance for monetary amounts (0.01).
// All reconciliation checks across the engine compare within this value.
var Tolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// RoundUpToStep rounds amount up to the nearest multiple of step.
// Used for balances and minimum payments, which always round in the
// institution's favour.
func RoundUpToStep(amount, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return amount
	}
	quotient := amount.Div(step)
	ceil := quotient.Ceil()
	return ceil.Mul(step)
}

// RoundDownToStep rounds amount down to the nearest multiple of step.
// Used for available credit, which also rounds in the institution's favour.
func RoundDownToStep(amount, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return amount
	}
	quotient := amount.Div(step)
	floor := quotient.Floor()
	return floor.Mul(step)
}
