package cash_test

import (
	"errors"
	"testing"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func standard(t *testing.T) cash.Profile {
	t.Helper()
	p, ok := cash.ProfileByName(cash.ProfileStandard)
	require.True(t, ok)
	return p
}

func unlimited(denoms ...string) cash.Inventory {
	inv := cash.Inventory{}
	for _, s := range denoms {
		inv[cash.Key(d(s))] = cash.Unlimited
	}
	return inv
}

func TestComputeChangeGreedyLargestFirst(t *testing.T) {
	inv := unlimited("20", "10", "5", "2", "1", "0.5")

	lines, err := cash.ComputeChange(standard(t), d("74.50"), inv)
	require.NoError(t, err)

	require.Len(t, lines, 4)
	assert.True(t, lines[0].Denomination.Equal(d("20")))
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[1].Denomination.Equal(d("10")))
	assert.Equal(t, 1, lines[1].Quantity)
	assert.True(t, lines[2].Denomination.Equal(d("2")))
	assert.Equal(t, 2, lines[2].Quantity)
	assert.True(t, lines[3].Denomination.Equal(d("0.5")))
	assert.Equal(t, 1, lines[3].Quantity)

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	assert.True(t, total.Equal(d("74.50")))
}

func TestComputeChangeRespectsInventoryConstraint(t *testing.T) {
	inv := cash.Inventory{
		cash.Key(d("20")): 1,
		cash.Key(d("10")): cash.Unlimited,
		cash.Key(d("5")):  cash.Unlimited,
	}

	lines, err := cash.ComputeChange(standard(t), d("55"), inv)
	require.NoError(t, err)

	// Only one 20 available, the rest covered by tens and a five.
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[1].Denomination.Equal(d("10")))
	assert.Equal(t, 3, lines[1].Quantity)
	assert.True(t, lines[2].Denomination.Equal(d("5")))
	assert.Equal(t, 1, lines[2].Quantity)
}

func TestComputeChangeUnreachableFailsExplicitly(t *testing.T) {
	inv := cash.Inventory{cash.Key(d("20")): cash.Unlimited}

	lines, err := cash.ComputeChange(standard(t), d("74.50"), inv)
	require.Error(t, err)
	assert.Nil(t, lines, "partial breakdowns must never be returned")
	assert.True(t, errors.Is(err, apperrors.ErrUnreachableChange))

	var unreachable *cash.UnreachableChangeError
	require.True(t, errors.As(err, &unreachable))
	assert.True(t, unreachable.Remaining.Equal(d("14.50")))
}

func TestComputeChangeDeficiencyEnumeration(t *testing.T) {
	inv := cash.Inventory{
		cash.Key(d("20")):  2, // ideal breakdown needs 3
		cash.Key(d("10")):  0, // ideal breakdown needs 1
		cash.Key(d("2")):   2,
		cash.Key(d("0.5")): 1,
	}

	_, err := cash.ComputeChange(standard(t), d("74.50"), inv)
	require.Error(t, err)

	var unreachable *cash.UnreachableChangeError
	require.True(t, errors.As(err, &unreachable))

	shortDenoms := make([]string, 0, len(unreachable.Short))
	for _, s := range unreachable.Short {
		shortDenoms = append(shortDenoms, s.Denomination.String())
	}
	assert.Contains(t, shortDenoms, "20")
	assert.Contains(t, shortDenoms, "10")
}

func TestComputeChangeIdempotent(t *testing.T) {
	inv := unlimited("100", "50", "20", "10", "5", "2", "1", "0.5")

	first, err := cash.ComputeChange(standard(t), d("387.50"), inv)
	require.NoError(t, err)
	second, err := cash.ComputeChange(standard(t), d("387.50"), inv)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Denomination.Equal(second[i].Denomination))
		assert.Equal(t, first[i].Quantity, second[i].Quantity)
	}
}

func TestComputeChangeZeroTarget(t *testing.T) {
	lines, err := cash.ComputeChange(standard(t), decimal.Zero, unlimited("20"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestComputeChangeNegativeTarget(t *testing.T) {
	_, err := cash.ComputeChange(standard(t), d("-5"), unlimited("20"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestComputeChangeExtendedProfileCoins(t *testing.T) {
	p, ok := cash.ProfileByName(cash.ProfileExtended)
	require.True(t, ok)

	lines, err := cash.ComputeChange(p, d("0.87"), unlimited("0.5", "0.2", "0.1", "0.05", "0.01"))
	require.NoError(t, err)

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	assert.True(t, total.Equal(d("0.87")))
}
