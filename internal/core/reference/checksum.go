package reference

// luhnSum computes the Luhn weighted sum of a numeric string, doubling every
// second digit starting from the rightmost and folding results above 9 back
// to a single digit (n - 9).
func luhnSum(digits string, doubleRightmost bool) int {
	sum := 0
	double := doubleRightmost
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum
}

// luhnValid reports whether a full reference, including its embedded check
// digit, passes the Luhn test.
func luhnValid(digits string) bool {
	return luhnSum(digits, false)%10 == 0
}

// luhnCheckDigit computes the Luhn check digit for a payload that does not
// yet include one. The rightmost payload digit is doubled first.
func luhnCheckDigit(digits string) int {
	sum := luhnSum(digits, true)
	return (10 - sum%10) % 10
}

// mod11CheckDigit computes a verification digit using a cycling 2..7 weight
// table applied right-to-left, modulo 11. A remainder of 0 yields 0, and a
// remainder of 1 also maps to 0. The remainder-1 mapping is this system's
// contract; it intentionally differs from textbook modulo-11 schemes that
// emit a non-numeric symbol there.
func mod11CheckDigit(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := sum % 11; r {
	case 0, 1:
		return 0
	default:
		return 11 - r
	}
}
