package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoice(t *testing.T) {
	req, err := invoice.Invoice{
		InvoiceNumber: "INV-7",
		InvoiceDate:   "2026-10-16",
		SellerName:    "Sharma Kirana",
		SellerGSTIN:   "27ABCDE1234F1Z5",
		BuyerName:     "Asha Verma",
		BuyerAddress:  "12 MG Road",
		BuyerCity:     "Pune",
		BuyerState:    "Maharashtra",
		BuyerPincode:  "411001",
		Items:         []invoice.LineItem{{Description: "Rice", Unit: "kg", Quantity: "5", Rate: "62.5"}},
		CGSTRate:      "2.5",
		SGSTRate:      "2.5",
		Notes:         "Thank you",
	}.Request()
	require.NoError(t, err)

	pdf, err := RenderInvoice(req)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRenderStatement(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{ID: "1", Amount: models.AmountFromFloat(120), TransactionType: models.Credit, CreatedBy: models.PartyBusiness, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "2", Amount: models.AmountFromFloat(50), TransactionType: models.Payment, CreatedBy: models.PartyCustomer, Notes: "cash", CreatedAt: now.AddDate(0, 0, -3)},
	}

	pdf, err := RenderStatement("Sharma Kirana", ledger.BuildView(txs, ledger.PerBusinessLedger, ledger.Filter{}, now), now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	empty, err := RenderStatement("Nobody", ledger.BuildView(nil, ledger.PerBusinessLedger, ledger.Filter{}, now), now)
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}
