// Package cash owns the currency denomination ladder, the drawer-constrained
// change calculator and denomination reconciliation arithmetic. It is pure.
package cash

import (
	"github.com/shopspring/decimal"
)

// Profile names configured via platform config.
const (
	ProfileStandard = "standard"
	ProfileExtended = "extended"
)

// Profile is a fixed, descending ladder of currency face values.
type Profile struct {
	Name          string
	Denominations []decimal.Decimal // Largest first
}

var standardLadder = mustLadder(
	"1000", "500", "200", "100", "50", "20", "10", "5", "2", "1", "0.5",
)

var extendedLadder = mustLadder(
	"1000", "500", "200", "100", "50", "20", "10", "5", "2", "1", "0.5",
	"0.2", "0.1", "0.05", "0.01",
)

func mustLadder(values ...string) []decimal.Decimal {
	ladder := make([]decimal.Decimal, len(values))
	for i, v := range values {
		ladder[i] = decimal.RequireFromString(v)
	}
	return ladder
}

// ProfileByName returns the denomination profile for a configured name.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case ProfileStandard, "":
		return Profile{Name: ProfileStandard, Denominations: standardLadder}, true
	case ProfileExtended:
		return Profile{Name: ProfileExtended, Denominations: extendedLadder}, true
	}
	return Profile{}, false
}

// Contains reports whether the face value is part of the ladder.
func (p Profile) Contains(denomination decimal.Decimal) bool {
	for _, d := range p.Denominations {
		if d.Equal(denomination) {
			return true
		}
	}
	return false
}

// SmallestUnit returns the smallest face value in the ladder. It is the
// rounding step for balances, minimum payments and available credit.
func (p Profile) SmallestUnit() decimal.Decimal {
	if len(p.Denominations) == 0 {
		return decimal.Zero
	}
	return p.Denominations[len(p.Denominations)-1]
}
