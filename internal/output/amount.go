package output

import "strconv"

// FormatSats renders an amount with thousands separators and unit, e.g.
// "1,234,567 sats".
func FormatSats(amountSat uint64) string {
	return groupDigits(strconv.FormatUint(amountSat, 10)) + " sats"
}

// groupDigits inserts comma separators into a decimal digit string.
func groupDigits(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	out := make([]byte, 0, n+(n-1)/3)
	lead := n % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
