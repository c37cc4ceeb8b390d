// Package export renders quotations as downloadable documents. Exports are
// pure projections: they format the persisted financials and never recompute
// a total.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"quotedesk/internal/domain/quotation"
)

// WriteQuotationCSV serialises one quotation to CSV: a header block, the item
// table, and the totals.
func WriteQuotationCSV(w io.Writer, q *quotation.Quotation) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	head := [][]string{
		{"Quotation Number", q.Number},
		{"Date", q.CreatedAt.Format("2006-01-02")},
		{"Status", string(q.Status)},
		{"Customer", q.CustomerName},
		{"Email", q.CustomerEmail},
	}
	if q.CustomerCompany != "" {
		head = append(head, []string{"Company", q.CustomerCompany})
	}
	if q.CustomerAddress != "" {
		head = append(head, []string{"Address", q.CustomerAddress})
	}
	for _, record := range head {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}

	if err := writer.Write([]string{"No", "Product", "Description", "Parameters", "Qty", "Rate", "Tax %", "Amount", "Amount incl. tax"}); err != nil {
		return err
	}
	for i, item := range q.Items {
		// The tax-inclusive column is presentation arithmetic over the
		// stored line values.
		withTax := quotation.ItemAmountWithTax(item)
		if err := writer.Write([]string{
			fmt.Sprintf("%d", i+1),
			item.ProductName,
			item.Description,
			formatParameters(item.Parameters),
			item.Quantity.String(),
			item.Rate.StringFixed(2),
			item.TaxPercent.String(),
			item.Amount.StringFixed(2),
			withTax.StringFixed(2),
		}); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}

	totals := [][]string{
		{"Subtotal", q.Subtotal.StringFixed(2)},
		{"Tax", q.Tax.StringFixed(2)},
		{"Total", q.Total.StringFixed(2)},
	}
	for _, record := range totals {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatParameters flattens parameter groups into "Title: Label=Value; ...".
func formatParameters(params []quotation.Parameter) string {
	if len(params) == 0 {
		return ""
	}

	var parts []string
	for _, p := range params {
		var specs []string
		for _, s := range p.Specs {
			specs = append(specs, s.Label+"="+s.Value)
		}
		parts = append(parts, p.Title+": "+strings.Join(specs, ", "))
	}
	return strings.Join(parts, "; ")
}
