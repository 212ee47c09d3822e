package reference_test

import (
	"testing"

	"github.com/branchpay/teller_backend/internal/core/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validCFE    = "123456789012345678901234567891" // 29-digit payload + Luhn digit 1
	validTelmex = "5512345678"
	telmexDigit = "6"
	validGNM    = "123456789012345678"
	gnmDigit    = "6"
)

func TestValidateUnknownProvider(t *testing.T) {
	_, ok := reference.Validate("SKY", "123", "")
	assert.False(t, ok)
}

func TestValidateCFE(t *testing.T) {
	res, ok := reference.Validate("CFE", validCFE, "")
	require.True(t, ok)
	assert.True(t, res.Valid, "reason: %s", res.Reason)
	assert.False(t, res.RequiresDigit)
}

func TestValidateCFEWithSeparators(t *testing.T) {
	spaced := "1234 5678-9012 3456-7890 1234 5678 91"
	res, ok := reference.Validate("CFE", spaced, "")
	require.True(t, ok)
	assert.True(t, res.Valid, "reason: %s", res.Reason)
}

func TestValidateLengthMismatchFailsFast(t *testing.T) {
	res, ok := reference.Validate("CFE", validCFE[:28], "")
	require.True(t, ok)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "exactly 30 digits")
}

func TestValidateNonNumeric(t *testing.T) {
	bad := "12345678901234567890123456789X"
	res, ok := reference.Validate("CFE", bad, "")
	require.True(t, ok)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "only digits")
}

func TestValidateTelmexDigit(t *testing.T) {
	res, ok := reference.Validate("TELMEX", validTelmex, telmexDigit)
	require.True(t, ok)
	assert.True(t, res.Valid, "reason: %s", res.Reason)

	res, ok = reference.Validate("TELMEX", validTelmex, "7")
	require.True(t, ok)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "does not match")
}

func TestValidateMissingDigitIsSoftFailure(t *testing.T) {
	res, ok := reference.Validate("TELMEX", validTelmex, "")
	require.True(t, ok)
	assert.False(t, res.Valid)
	assert.True(t, res.RequiresDigit)
}

func TestValidateGNM(t *testing.T) {
	res, ok := reference.Validate("GNM", validGNM, gnmDigit)
	require.True(t, ok)
	assert.True(t, res.Valid, "reason: %s", res.Reason)
}

func TestValidateGNMRemainderOneContract(t *testing.T) {
	// This payload produces a modulo-11 remainder of 1, which this scheme
	// maps to verification digit 0.
	res, ok := reference.Validate("GNM", "000000000000000006", "0")
	require.True(t, ok)
	assert.True(t, res.Valid, "reason: %s", res.Reason)
}

func TestValidateDiestelLengthOnly(t *testing.T) {
	res, ok := reference.Validate("DIESTEL", "12345678901234567890", "")
	require.True(t, ok)
	assert.True(t, res.Valid)

	res, ok = reference.Validate("DIESTEL", "1234567890", "")
	require.True(t, ok)
	assert.False(t, res.Valid)
}

// Any single-digit mutation of a checksum-protected reference must fail.
func TestValidateChecksumSensitivity(t *testing.T) {
	for i := 0; i < len(validCFE); i++ {
		mutated := mutateDigit(validCFE, i)
		res, ok := reference.Validate("CFE", mutated, "")
		require.True(t, ok)
		assert.False(t, res.Valid, "mutation at position %d slipped through", i)
	}
	for i := 0; i < len(validGNM); i++ {
		mutated := mutateDigit(validGNM, i)
		res, ok := reference.Validate("GNM", mutated, gnmDigit)
		require.True(t, ok)
		assert.False(t, res.Valid, "mutation at position %d slipped through", i)
	}
	for i := 0; i < len(validTelmex); i++ {
		mutated := mutateDigit(validTelmex, i)
		res, ok := reference.Validate("TELMEX", mutated, telmexDigit)
		require.True(t, ok)
		assert.False(t, res.Valid, "mutation at position %d slipped through", i)
	}
}

func TestProviderCodes(t *testing.T) {
	codes := reference.ProviderCodes()
	assert.ElementsMatch(t, []string{"CFE", "TELMEX", "GNM", "DIESTEL"}, codes)
}

func TestRuleForCaseInsensitive(t *testing.T) {
	rule, ok := reference.RuleFor(" cfe ")
	require.True(t, ok)
	assert.Equal(t, "CFE", rule.Code)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345", reference.Normalize(" 1-23 4\t5"))
}

func mutateDigit(s string, pos int) string {
	b := []byte(s)
	b[pos] = byte('0' + (int(b[pos]-'0')+1)%10)
	return string(b)
}
