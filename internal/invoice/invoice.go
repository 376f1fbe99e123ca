// Package invoice computes GST invoice totals from form input and prepares
// the payload for the server-side PDF generator.
package invoice

import (
	"regexp"
	"strings"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one row of the invoice form. Quantity and Rate hold whatever
// the user typed.
type LineItem struct {
	Description string `json:"description"`
	HSNCode     string `json:"hsn_code,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
}

func (item LineItem) blank() bool {
	return strings.TrimSpace(item.Description) == "" &&
		strings.TrimSpace(item.Quantity) == "" &&
		strings.TrimSpace(item.Rate) == ""
}

// Invoice is the invoice form.
type Invoice struct {
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   string     `json:"invoice_date,omitempty"`
	SellerName    string     `json:"seller_name,omitempty"`
	SellerAddress string     `json:"seller_address,omitempty"`
	SellerGSTIN   string     `json:"seller_gstin,omitempty"`
	BuyerName     string     `json:"buyer_name"`
	BuyerAddress  string     `json:"buyer_address"`
	BuyerCity     string     `json:"buyer_city"`
	BuyerState    string     `json:"buyer_state"`
	BuyerPincode  string     `json:"buyer_pincode"`
	BuyerGSTIN    string     `json:"buyer_gstin,omitempty"`
	Items         []LineItem `json:"items"`
	CGSTRate      string     `json:"cgst_rate"`
	SGSTRate      string     `json:"sgst_rate"`
	Notes         string     `json:"notes,omitempty"`
}

// formNumber is what a quantity, rate or tax field may hold once thousands
// separators are removed. Signs and exponents are not accepted.
var formNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseDecimal reads a non-negative number from form text. Anything that is
// not a plain number, including a negative one or one in exponent form,
// reads as zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !formNumber.MatchString(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ItemTotal is quantity × rate.
func ItemTotal(item LineItem) decimal.Decimal {
	return ParseDecimal(item.Quantity).Mul(ParseDecimal(item.Rate))
}

// Totals are kept at full precision; call Rounded only for display or
// submission.
type Totals struct {
	Subtotal decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums the items and applies both tax rates, given in percent,
// to the subtotal.
func ComputeTotals(items []LineItem, cgstRate, sgstRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(ItemTotal(item))
	}
	cgst := subtotal.Mul(cgstRate).Div(hundred)
	sgst := subtotal.Mul(sgstRate).Div(hundred)
	return Totals{
		Subtotal: subtotal,
		CGST:     cgst,
		SGST:     sgst,
		Total:    subtotal.Add(cgst).Add(sgst),
	}
}

// Rounded returns the totals rounded to paise.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		CGST:     t.CGST.Round(2),
		SGST:     t.SGST.Round(2),
		Total:    t.Total.Round(2),
	}
}

// Totals computes the live totals of the form.
func (inv Invoice) Totals() Totals {
	return ComputeTotals(inv.Items, ParseDecimal(inv.CGSTRate), ParseDecimal(inv.SGSTRate))
}

// Request validates the form and builds the generator payload. Blank rows
// are dropped and amounts are rounded to two places at this point only.
func (inv Invoice) Request() (models.InvoiceRequest, error) {
	if err := inv.Validate(); err != nil {
		return models.InvoiceRequest{}, err
	}

	req := models.InvoiceRequest{
		InvoiceNumber: strings.TrimSpace(inv.InvoiceNumber),
		InvoiceDate:   strings.TrimSpace(inv.InvoiceDate),
		SellerName:    strings.TrimSpace(inv.SellerName),
		SellerAddress: strings.TrimSpace(inv.SellerAddress),
		SellerGSTIN:   strings.TrimSpace(inv.SellerGSTIN),
		BuyerName:     strings.TrimSpace(inv.BuyerName),
		BuyerAddress:  strings.TrimSpace(inv.BuyerAddress),
		BuyerCity:     strings.TrimSpace(inv.BuyerCity),
		BuyerState:    strings.TrimSpace(inv.BuyerState),
		BuyerPincode:  strings.TrimSpace(inv.BuyerPincode),
		BuyerGSTIN:    strings.TrimSpace(inv.BuyerGSTIN),
		CGSTRate:      models.NewAmount(ParseDecimal(inv.CGSTRate)),
		SGSTRate:      models.NewAmount(ParseDecimal(inv.SGSTRate)),
		Notes:         strings.TrimSpace(inv.Notes),
	}
	for _, item := range inv.Items {
		if item.blank() {
			continue
		}
		req.Items = append(req.Items, models.InvoiceItemRequest{
			Description: strings.TrimSpace(item.Description),
			HSNCode:     strings.TrimSpace(item.HSNCode),
			Unit:        strings.TrimSpace(item.Unit),
			Quantity:    models.NewAmount(ParseDecimal(item.Quantity)),
			Rate:        models.NewAmount(ParseDecimal(item.Rate)),
			Total:       models.NewAmount(ItemTotal(item).Round(2)),
		})
	}

	totals := inv.Totals().Rounded()
	req.Subtotal = models.NewAmount(totals.Subtotal)
	req.CGST = models.NewAmount(totals.CGST)
	req.SGST = models.NewAmount(totals.SGST)
	req.Total = models.NewAmount(totals.Total)
	return req, nil
}
