package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"quotedesk/internal/domain/quotation"
)

// QuotationPDF renders one quotation as an A4 PDF document.
func QuotationPDF(q *quotation.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "QUOTATION")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Quotation Number: %s", q.Number))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", q.CreatedAt.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", q.Status))
	pdf.Ln(13)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "QUOTED TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, q.CustomerName)
	pdf.Ln(6)
	if q.CustomerCompany != "" {
		pdf.Cell(0, 6, q.CustomerCompany)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, q.CustomerEmail)
	pdf.Ln(6)
	if q.CustomerPhone != "" {
		pdf.Cell(0, 6, q.CustomerPhone)
		pdf.Ln(6)
	}
	if q.CustomerAddress != "" {
		pdf.Cell(0, 6, q.CustomerAddress)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Qty", "Rate", "Tax %", "Amount"}
	colWidths := []float64{80, 20, 25, 20, 25}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	for _, item := range q.Items {
		description := item.Description
		if item.ProductName != "" && item.ProductName != item.Description {
			description = item.ProductName + " - " + item.Description
		}

		pdf.CellFormat(colWidths[0], 8, description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, item.Quantity.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, item.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.TaxPercent.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, item.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)

		if params := formatParameters(item.Parameters); params != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3]+colWidths[4], 6, params, "1", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.Ln(6)
		}
	}

	pdf.Ln(5)

	// Totals are the persisted values, printed verbatim.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, q.Subtotal.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)

	taxLabel := "Tax:"
	if q.TaxMode == quotation.TaxModeFlat {
		taxLabel = fmt.Sprintf("Tax (%s%%):", q.FlatTaxPercent)
	}
	pdf.CellFormat(130, 6, taxLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, q.Tax.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, q.Total.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if q.ShippingDetails != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Shipping:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, q.ShippingDetails, "", "L", false)
		pdf.Ln(4)
	}

	if q.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, q.Notes, "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "This quotation is valid for 30 days from the date of issue.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
