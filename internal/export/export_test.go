package export

import (
	"bytes"
	"strings"
	"testing"

	"quotedesk/internal/core/id"
	"quotedesk/internal/core/types"
	"quotedesk/internal/domain/quotation"
)

func sampleQuotation() *quotation.Quotation {
	q := quotation.New(id.New())
	q.Number = "QT-2026-00042"
	q.CustomerName = "Jane Smith"
	q.CustomerEmail = "jane@acme.test"
	q.CustomerCompany = "Acme Industries"
	q.Items = []quotation.LineItem{
		{
			ProductName: "Hydraulic press",
			Description: "40-ton hydraulic press",
			Quantity:    types.MustMoney("2"),
			Rate:        types.MustMoney("100"),
			TaxPercent:  types.MustMoney("10"),
			Parameters: []quotation.Parameter{
				{Title: "Dimensions", Specs: []quotation.Spec{{Label: "Height", Value: "2.1m"}}},
			},
		},
		{
			Description: "Shipping crate",
			Quantity:    types.MustMoney("1"),
			Rate:        types.MustMoney("50"),
		},
	}
	q.Recalculate()
	return q
}

func TestWriteQuotationCSV(t *testing.T) {
	q := sampleQuotation()

	var buf bytes.Buffer
	if err := WriteQuotationCSV(&buf, q); err != nil {
		t.Fatalf("WriteQuotationCSV failed: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"QT-2026-00042",
		"Jane Smith",
		"40-ton hydraulic press",
		"Dimensions: Height=2.1m",
		"Subtotal,250.00",
		"Tax,20.00",
		"Total,270.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV missing %q:\n%s", want, out)
		}
	}

	// The tax-inclusive column: 2 × 100 × 1.10 = 220.00.
	if !strings.Contains(out, "220.00") {
		t.Errorf("CSV missing tax-inclusive amount:\n%s", out)
	}
}

func TestWriteQuotationCSV_UsesStoredTotalsVerbatim(t *testing.T) {
	q := sampleQuotation()
	// Deliberately inconsistent stored totals; the export must print them
	// as-is rather than recompute.
	q.Total = types.MustMoney("999.99")

	var buf bytes.Buffer
	if err := WriteQuotationCSV(&buf, q); err != nil {
		t.Fatalf("WriteQuotationCSV failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Total,999.99") {
		t.Error("export recomputed the total instead of projecting the stored value")
	}
}

func TestQuotationPDF(t *testing.T) {
	q := sampleQuotation()
	q.ShippingDetails = "Deliver to loading dock B"
	q.Notes = "Lead time 6 weeks"

	out, err := QuotationPDF(q)
	if err != nil {
		t.Fatalf("QuotationPDF failed: %v", err)
	}

	if len(out) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic: %q", out[:8])
	}
}
