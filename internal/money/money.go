// Package money provides exact integer-cent arithmetic for GST accounting.
// All stored amounts are int64 cents; decimal handles parsing and the
// half-up roundings so no float ever touches a stored value.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GST rate is 10%: a GST-inclusive total is 11/10 of the subtotal.
var (
	gstMultiplier = decimal.New(11, -1) // 1.1
	gstDivisor    = decimal.NewFromInt(11)
	hundred       = decimal.NewFromInt(100)
)

// Add sums two cent amounts.
func Add(a, b int64) int64 {
	return a + b
}

// AddGST returns the GST-inclusive total for a GST-exclusive subtotal,
// rounding the fractional cent half-up: 3333 -> 3666.
func AddGST(subtotalCents int64) int64 {
	return decimal.NewFromInt(subtotalCents).Mul(gstMultiplier).Round(0).IntPart()
}

// GSTFromTotal returns the GST component of a GST-inclusive total
// (one eleventh, rounded): 10000 -> 909.
func GSTFromTotal(totalCents int64) int64 {
	return decimal.NewFromInt(totalCents).Div(gstDivisor).Round(0).IntPart()
}

// SubtotalFromTotal returns the GST-exclusive part of a GST-inclusive total.
// SubtotalFromTotal(t) + GSTFromTotal(t) == t for all non-negative t.
func SubtotalFromTotal(totalCents int64) int64 {
	return totalCents - GSTFromTotal(totalCents)
}

// ApplyBusinessPercent returns the business-use share of an amount,
// rounded half-up. Percent must be in [0,100].
func ApplyBusinessPercent(amountCents int64, percent int) (int64, error) {
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("business percent %d outside [0,100]", percent)
	}
	return scaleByPercent(amountCents, percent), nil
}

// DeductibleGST returns the claimable share of a GST amount for a given
// business-use percent. Callers validate the percent via ApplyBusinessPercent.
func DeductibleGST(gstCents int64, percent int) int64 {
	return scaleByPercent(gstCents, percent)
}

func scaleByPercent(cents int64, percent int) int64 {
	return decimal.NewFromInt(cents).Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(0).IntPart()
}

// DollarsToCents converts a float dollar amount to cents, rounding to the
// nearest cent so binary representation error never leaks through:
// 0.1 + 0.2 dollars -> exactly 30 cents.
func DollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(hundred).Round(0).IntPart()
}

// CentsToDollars converts cents to a float dollar amount for display only.
func CentsToDollars(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(hundred).Float64()
	return f
}

// FormatCents renders cents as a dollar string like "$36.66" or "-$4.00".
func FormatCents(cents int64) string {
	d := decimal.NewFromInt(cents).Div(hundred)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ParseCents parses a dollar string from a spreadsheet cell into cents.
// Accepts currency symbols, thousands separators, and accounting-style
// parentheses for negatives: "$1,234.50" -> 123450, "(4.00)" -> -400.
func ParseCents(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	cents := d.Mul(hundred).Round(0).IntPart()
	if negative {
		cents = -cents
	}
	return cents, nil
}
