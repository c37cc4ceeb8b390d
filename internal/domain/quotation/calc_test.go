package quotation

import (
	"testing"

	"github.com/shopspring/decimal"

	"quotedesk/internal/core/types"
)

func item(qty, rate, tax string) LineItem {
	return LineItem{
		Description: "item",
		Quantity:    types.MustMoney(qty),
		Rate:        types.MustMoney(rate),
		TaxPercent:  types.MustMoney(tax),
	}
}

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{"whole numbers", item("2", "100", "10"), "200"},
		{"fractional quantity", item("1.5", "10", "0"), "15"},
		{"zero rate", item("3", "0", "20"), "0"},
		{"fractional rate", item("3", "0.1", "0"), "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(tt.item)
			if !got.Equal(types.MustMoney(tt.want)) {
				t.Errorf("ItemAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestItemAmountWithTax(t *testing.T) {
	got := ItemAmountWithTax(item("2", "100", "10"))
	if !got.Equal(types.MustMoney("220")) {
		t.Errorf("ItemAmountWithTax() = %s, want 220", got)
	}

	// Zero tax degenerates to the plain amount.
	got = ItemAmountWithTax(item("1", "50", "0"))
	if !got.Equal(types.MustMoney("50")) {
		t.Errorf("ItemAmountWithTax() = %s, want 50", got)
	}
}

func TestSubtotal_Empty(t *testing.T) {
	if got := Subtotal(nil); !got.IsZero() {
		t.Errorf("Subtotal(nil) = %s, want 0", got)
	}
	if got := Subtotal([]LineItem{}); !got.IsZero() {
		t.Errorf("Subtotal(empty) = %s, want 0", got)
	}
}

func TestAggregateTax_PerItem(t *testing.T) {
	// Two items at 100 with 10% tax plus one at 50 untaxed:
	// subtotal 250, tax 20, total 270.
	items := []LineItem{
		item("2", "100", "10"),
		item("1", "50", "0"),
	}

	subtotal := Subtotal(items)
	if !subtotal.Equal(types.MustMoney("250")) {
		t.Fatalf("subtotal = %s, want 250", subtotal)
	}

	tax := AggregateTax(items, TaxModePerItem, decimal.Zero)
	if !tax.Equal(types.MustMoney("20")) {
		t.Fatalf("tax = %s, want 20", tax)
	}

	total := Total(subtotal, tax)
	if !total.Equal(types.MustMoney("270")) {
		t.Fatalf("total = %s, want 270", total)
	}
}

func TestAggregateTax_Flat(t *testing.T) {
	items := []LineItem{
		item("2", "100", "10"), // per-item tax rate must be ignored in flat mode
		item("1", "50", "0"),
	}

	tax := AggregateTax(items, TaxModeFlat, types.MustMoney("18"))
	if !tax.Equal(types.MustMoney("45")) {
		t.Errorf("flat tax = %s, want 45 (18%% of 250)", tax)
	}

	tax = AggregateTax(items, TaxModeFlat, decimal.Zero)
	if !tax.IsZero() {
		t.Errorf("flat tax at 0%% = %s, want 0", tax)
	}
}

func TestRecalculate_RoundsOnceAtBoundary(t *testing.T) {
	q := New(newID(t))
	q.Items = []LineItem{
		item("3", "0.333", "7.5"),
		item("1", "9.999", "7.5"),
	}

	q.Recalculate()

	// Raw subtotal 0.999 + 9.999 = 10.998 → 11.00 after one rounding pass.
	if got := q.Subtotal.StringFixed(2); got != "11.00" {
		t.Errorf("subtotal = %s, want 11.00", got)
	}
	// Raw tax 10.998 × 7.5% = 0.82485 → 0.82.
	if got := q.Tax.StringFixed(2); got != "0.82" {
		t.Errorf("tax = %s, want 0.82", got)
	}
	// Total is the sum of the rounded parts, exactly.
	if !q.Total.Equal(q.Subtotal.Add(q.Tax)) {
		t.Errorf("total %s != subtotal %s + tax %s", q.Total, q.Subtotal, q.Tax)
	}

	// Line amounts are rounded independently of the subtotal.
	if got := q.Items[0].Amount.StringFixed(2); got != "1.00" {
		t.Errorf("line amount = %s, want 1.00", got)
	}
}

func TestRecalculate_Deterministic(t *testing.T) {
	build := func() *Quotation {
		q := New(newID(t))
		q.TaxMode = TaxModePerItem
		q.Items = []LineItem{
			item("2", "100", "10"),
			item("1", "50", "0"),
		}
		q.Recalculate()
		return q
	}

	a, b := build(), build()
	if !a.Subtotal.Equal(b.Subtotal) || !a.Tax.Equal(b.Tax) || !a.Total.Equal(b.Total) {
		t.Errorf("recalculation is not deterministic: %s/%s/%s vs %s/%s/%s",
			a.Subtotal, a.Tax, a.Total, b.Subtotal, b.Tax, b.Total)
	}
}
