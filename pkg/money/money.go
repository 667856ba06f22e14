// Package money wraps shopspring/decimal with the handful of currency
// operations the reporting layers need.
package money

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with financial precision.
type Money struct {
	decimal.Decimal
}

// New creates a Money from a float64.
func New(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// FromDecimal creates a Money from a decimal.Decimal.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the amount to cents, half away from zero.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual.
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly.
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// Add adds another amount.
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another amount.
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// ClampFloor returns the larger of the amount and the floor.
func (m Money) ClampFloor(floor Money) Money {
	if m.Decimal.LessThan(floor.Decimal) {
		return floor
	}
	return m
}

// String formats the amount as USD with two decimals.
func (m Money) String() string {
	return "$" + m.Decimal.StringFixed(2)
}
