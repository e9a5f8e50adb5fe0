// Package money holds the currency helpers shared by the cart and order code.
// Amounts are whole Tanzanian shillings stored as int64; every derived value is
// rounded to the nearest shilling right after the multiplication that produced
// it, so sums never carry fractional drift.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Currency = "TZS"

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.English)
)

// Round rounds d to the nearest whole unit, halves away from zero.
func Round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Percent returns pct percent of amount, rounded.
func Percent(amount int64, pct decimal.Decimal) int64 {
	return Round(decimal.NewFromInt(amount).Mul(pct).Div(hundred))
}

// Tax applies ratePercent to a taxable amount. Non-positive amounts are not taxed.
func Tax(taxable int64, ratePercent decimal.Decimal) int64 {
	if taxable <= 0 {
		return 0
	}
	return Percent(taxable, ratePercent)
}

// Multiply returns unitPrice * quantity.
func Multiply(unitPrice int64, quantity int) int64 {
	return unitPrice * int64(quantity)
}

// Format renders an amount the way it is shown to shoppers, e.g. "50,000 TZS".
func Format(amount int64) string {
	return printer.Sprintf("%d %s", amount, Currency)
}
