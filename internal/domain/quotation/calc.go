package quotation

import (
	"github.com/shopspring/decimal"

	"quotedesk/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// ItemAmount returns the canonical tax-exclusive line amount: quantity × rate.
func ItemAmount(item LineItem) types.Money {
	return item.Quantity.Mul(item.Rate)
}

// ItemAmountWithTax returns the line amount with the item's own tax applied:
// quantity × rate × (1 + tax/100). Used only by document projections; the
// subtotal is always built from tax-exclusive amounts.
func ItemAmountWithTax(item LineItem) types.Money {
	factor := decimal.NewFromInt(1).Add(item.TaxPercent.Div(hundred))
	return ItemAmount(item).Mul(factor)
}

// Subtotal returns the sum of tax-exclusive line amounts. Empty input yields
// zero.
func Subtotal(items []LineItem) types.Money {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemAmount(item))
	}
	return sum
}

// PerItemTax returns the sum of each line's own tax contribution.
func PerItemTax(items []LineItem) types.Money {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemAmount(item).Mul(item.TaxPercent).Div(hundred))
	}
	return sum
}

// FlatTax returns subtotal × percent / 100.
func FlatTax(subtotal types.Money, percent types.Percent) types.Money {
	return subtotal.Mul(percent).Div(hundred)
}

// AggregateTax computes the quotation-level tax per the declared mode.
// Unknown modes yield zero tax; Validate rejects them before persistence.
func AggregateTax(items []LineItem, mode TaxMode, flatPercent types.Percent) types.Money {
	switch mode {
	case TaxModeFlat:
		return FlatTax(Subtotal(items), flatPercent)
	case TaxModePerItem:
		return PerItemTax(items)
	}
	return decimal.Zero
}

// Total returns subtotal + tax. When both inputs are already rounded the
// result needs no further rounding, so total == subtotal + tax holds exactly.
func Total(subtotal, tax types.Money) types.Money {
	return subtotal.Add(tax)
}
