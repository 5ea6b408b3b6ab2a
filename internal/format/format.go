// Package format provides the numeric and address formatting helpers shared
// by the report renderers and the server responses.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency formats a dollar amount with a sign, thousands separators and two
// decimals: -1234.5 → "-$1,234.50".
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + withThousands(fmt.Sprintf("%.2f", v))
}

// CurrencyCompact formats large dollar amounts with K/M/B suffixes:
// 1_250_000 → "$1.25M". Values under 1000 fall back to Currency.
func CurrencyCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return sign + "$" + trimZeros(fmt.Sprintf("%.2f", v/1e9)) + "B"
	case v >= 1e6:
		return sign + "$" + trimZeros(fmt.Sprintf("%.2f", v/1e6)) + "M"
	case v >= 1e3:
		return sign + "$" + trimZeros(fmt.Sprintf("%.2f", v/1e3)) + "K"
	default:
		return sign + "$" + fmt.Sprintf("%.2f", v)
	}
}

// Percent formats a percentage with two decimals: 66.666 → "66.67%".
// Infinite values render as "∞" so the profit-factor convention survives
// display without NaN leakage.
func Percent(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	if math.IsInf(v, -1) {
		return "-∞"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Ratio formats a unitless ratio (profit factor, payoff ratio) with two
// decimals, rendering +Inf as "∞".
func Ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}

// Address shortens a wallet address for display: 0x1234…abcd.
// Strings of 12 characters or fewer are returned unchanged.
func Address(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// Quantity formats a trade size trimming trailing zeros: 0.2500 → "0.25".
func Quantity(v float64) string {
	return trimZeros(strconv.FormatFloat(v, 'f', 8, 64))
}

// withThousands inserts comma separators into the integer part of a
// formatted decimal string.
func withThousands(s string) string {
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var sb strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sb.String() + frac
}

func trimZeros(s string) string {
	if !strings.ContainsRune(s, '.') {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
