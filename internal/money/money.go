// Package money handles currency amounts as int64 cents. Amounts cross the
// API boundary as decimal strings ("123.45") and are converted with exact
// decimal arithmetic so no fraction of a cent is ever lost in transit.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var centFactor = decimal.NewFromInt(100)

// Parse converts a decimal string into cents. It rejects values with more
// than two fractional digits rather than rounding silently.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := d.Mul(centFactor)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

// FromDecimal converts an exact decimal value into cents.
func FromDecimal(d decimal.Decimal) (int64, error) {
	cents := d.Mul(centFactor)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d)
	}
	return cents.IntPart(), nil
}

// Format renders cents as a plain decimal string with two fractional digits.
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
