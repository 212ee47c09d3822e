// Package reference validates payment reference numbers against
// provider-specific checksum schemes. It is pure: no I/O, no clock.
package reference

import (
	"fmt"
	"strconv"
	"strings"
)

// Provider codes known to the branch network.
const (
	ProviderCFE     = "CFE"
	ProviderTelmex  = "TELMEX"
	ProviderGNM     = "GNM"
	ProviderDiestel = "DIESTEL"
)

// Rule describes how one provider's reference numbers are validated.
// Checksum, when set, is a pass over the full reference. VerificationDigit,
// when set, computes the expected separate digit for the reference payload.
type Rule struct {
	Code                    string
	Name                    string
	Length                  int
	VerificationDigitLength int
	Checksum                func(reference string) bool
	VerificationDigit       func(reference string) int
}

// RequiresDigit reports whether the provider expects a separate verification digit.
func (r Rule) RequiresDigit() bool {
	return r.VerificationDigit != nil
}

// rules is the provider lookup table. Each entry reproduces the exact weight
// table and modulus of the provider's scheme; they are not interchangeable.
var rules = map[string]Rule{
	ProviderCFE: {
		Code:     ProviderCFE,
		Name:     "Comisión Federal de Electricidad",
		Length:   30,
		Checksum: luhnValid,
	},
	ProviderTelmex: {
		Code:                    ProviderTelmex,
		Name:                    "Telmex",
		Length:                  10,
		VerificationDigitLength: 1,
		VerificationDigit:       luhnCheckDigit,
	},
	ProviderGNM: {
		Code:                    ProviderGNM,
		Name:                    "Gas Natural México",
		Length:                  18,
		VerificationDigitLength: 1,
		VerificationDigit:       mod11CheckDigit,
	},
	ProviderDiestel: {
		Code:   ProviderDiestel,
		Name:   "Diestel",
		Length: 20,
	},
}

// RuleFor returns the validation rule for a provider code.
func RuleFor(providerCode string) (Rule, bool) {
	rule, ok := rules[strings.ToUpper(strings.TrimSpace(providerCode))]
	return rule, ok
}

// ProviderCodes returns the known provider codes.
func ProviderCodes() []string {
	codes := make([]string, 0, len(rules))
	for code := range rules {
		codes = append(codes, code)
	}
	return codes
}

// FailureKind classifies why a reference was rejected.
type FailureKind string

const (
	// KindFormat covers length and character-class failures.
	KindFormat FailureKind = "FORMAT"
	// KindChecksum covers checksum and verification-digit mismatches.
	KindChecksum FailureKind = "CHECKSUM"
	// KindDigitRequired marks a well-formed reference missing its digit.
	KindDigitRequired FailureKind = "DIGIT_REQUIRED"
)

// Result is the outcome of validating a reference number.
type Result struct {
	Valid bool `json:"valid"`
	// RequiresDigit is set when the provider expects a verification digit and
	// none was supplied. The reference itself is not malformed in that case;
	// callers should prompt for the digit.
	RequiresDigit bool        `json:"requiresDigit"`
	Kind          FailureKind `json:"-"`
	Reason        string      `json:"reason,omitempty"`
}

// Normalize strips whitespace and hyphens from a raw reference.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Validate checks a raw reference (and optional verification digit) against
// the provider's rule. An empty verificationDigit means none was supplied.
// ok is false only when the provider code itself is unknown.
func Validate(providerCode, rawReference, verificationDigit string) (Result, bool) {
	rule, found := RuleFor(providerCode)
	if !found {
		return Result{}, false
	}

	ref := Normalize(rawReference)
	digit := Normalize(verificationDigit)

	// Length is enforced before any checksum work.
	if len(ref) != rule.Length {
		return Result{Kind: KindFormat, Reason: fmt.Sprintf("reference must be exactly %d digits, got %d", rule.Length, len(ref))}, true
	}
	if !isNumeric(ref) {
		return Result{Kind: KindFormat, Reason: "reference must contain only digits"}, true
	}

	if rule.Checksum != nil && !rule.Checksum(ref) {
		return Result{Kind: KindChecksum, Reason: "reference failed checksum validation"}, true
	}

	if rule.RequiresDigit() {
		if digit == "" {
			// Soft failure: the reference is fine, the digit is missing.
			return Result{RequiresDigit: true, Kind: KindDigitRequired, Reason: "verification digit required"}, true
		}
		if len(digit) != rule.VerificationDigitLength || !isNumeric(digit) {
			return Result{Kind: KindFormat, Reason: fmt.Sprintf("verification digit must be exactly %d digit(s)", rule.VerificationDigitLength)}, true
		}
		expected := rule.VerificationDigit(ref)
		if digit != strconv.Itoa(expected) {
			return Result{Kind: KindChecksum, Reason: "verification digit does not match reference"}, true
		}
	}

	return Result{Valid: true}, true
}
