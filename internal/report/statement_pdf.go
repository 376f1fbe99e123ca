package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/phpdave11/gofpdf"
)

// RenderStatement draws a ledger statement for one business, one section per
// date group in the order the view holds them.
func RenderStatement(businessName string, view ledger.View, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Statement - "+businessName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, businessName)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Generated "+generatedAt.Format("2 Jan 2006, 15:04"))
	pdf.Ln(10)

	s := view.Summary
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(60, 7, "Total credit: "+rs(s.TotalCredit))
	pdf.Cell(60, 7, "Total payment: "+rs(s.TotalPayment))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s: %s", s.Label(), rs(s.Balance.Abs())))
	pdf.Ln(12)

	if len(view.Groups) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No transactions")
	}

	for _, g := range view.Groups {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(190, 7, g.DisplayDate, "", 0, "L", true, 0, "")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		for _, t := range g.Data {
			pdf.CellFormat(20, 6, t.CreatedAt.In(generatedAt.Location()).Format("15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, strings.ToUpper(string(t.TransactionType)), "", 0, "L", false, 0, "")
			pdf.CellFormat(105, 6, entryNote(t), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, rs(t.Amount.Decimal), "", 0, "R", false, 0, "")
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering statement: %w", err)
	}
	return buf.Bytes(), nil
}

func entryNote(t models.Transaction) string {
	by := "by business"
	if t.CreatedBy == models.PartyCustomer {
		by = "by you"
	}
	if t.Notes == "" {
		return by
	}
	return t.Notes + " (" + by + ")"
}
