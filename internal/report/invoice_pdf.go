// Package report renders invoices and ledger statements as PDF.
package report

import (
	"bytes"
	"fmt"

	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// The core PDF fonts have no rupee glyph.
func rs(d decimal.Decimal) string {
	return "Rs. " + invoice.FormatAmount(d)
}

// RenderInvoice draws a tax invoice for req.
func RenderInvoice(req models.InvoiceRequest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tax Invoice "+req.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if req.InvoiceNumber != "" {
		pdf.Cell(0, 6, "Invoice No: "+req.InvoiceNumber)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Date: "+req.InvoiceDate)
	pdf.Ln(10)

	if req.SellerName != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 6, req.SellerName)
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		if req.SellerAddress != "" {
			pdf.MultiCell(0, 5, req.SellerAddress, "", "L", false)
		}
		if req.SellerGSTIN != "" {
			pdf.Cell(0, 5, "GSTIN: "+req.SellerGSTIN)
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, req.BuyerName)
	pdf.Ln(5)
	pdf.MultiCell(0, 5, fmt.Sprintf("%s, %s, %s - %s", req.BuyerAddress, req.BuyerCity, req.BuyerState, req.BuyerPincode), "", "L", false)
	if req.BuyerGSTIN != "" {
		pdf.Cell(0, 5, "GSTIN: "+req.BuyerGSTIN)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	widths := []float64{10, 70, 20, 20, 30, 40}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"#", "Description", "HSN", "Qty", "Rate", "Amount"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, item := range req.Items {
		qty := item.Quantity.String()
		if item.Unit != "" {
			qty += " " + item.Unit
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, item.HSNCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, qty, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, invoice.FormatAmount(item.Rate.Decimal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, invoice.FormatAmount(item.Total.Decimal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", req.Subtotal.Decimal},
		{fmt.Sprintf("CGST @ %s%%", req.CGSTRate.String()), req.CGST.Decimal},
		{fmt.Sprintf("SGST @ %s%%", req.SGSTRate.String()), req.SGST.Decimal},
	}
	for _, row := range totals {
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, rs(row.value), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, rs(req.Total.Decimal), "T", 0, "R", false, 0, "")
	pdf.Ln(12)

	if req.Notes != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "Notes: "+req.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering invoice: %w", err)
	}
	return buf.Bytes(), nil
}
