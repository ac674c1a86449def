package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for zero, negative, non-numeric or sub-cent amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// ToCents converts a decimal amount in currency units into cents.
// Amounts must be positive and carry at most two fractional digits.
func ToCents(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, ErrInvalidAmount
	}
	if cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// maxCents caps a single transaction at 10^13 cents.
const maxCents = 10_000_000_000_000

// FromCents converts cents back into a decimal amount in currency units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as a fixed two-digit decimal string ("100.00").
func FormatCents(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
