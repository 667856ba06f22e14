package output

import (
	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/pkg/money"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in
// isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.FromDecimal(amount).Round().String()
}

// FormatPercentage formats a decimal ratio (0.85 = 85%) with 1 decimal.
func FormatPercentage(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
