package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func money(a models.Amount) string {
	return invoice.FormatCurrency(a.Decimal)
}

func printProfile(w io.Writer, u *models.User) {
	tw := table(w)
	fmt.Fprintf(tw, "Name\t%s\n", u.Name)
	fmt.Fprintf(tw, "Phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Address\t%s\n", u.Address)
	fmt.Fprintf(tw, "City\t%s\n", u.City)
	fmt.Fprintf(tw, "State\t%s\n", u.State)
	fmt.Fprintf(tw, "Pincode\t%s\n", u.Pincode)
	tw.Flush()
}

func printDashboard(w io.Writer, d *models.Dashboard) {
	fmt.Fprintf(w, "Total credit:  %s\n", money(d.TotalCredit))
	fmt.Fprintf(w, "Total paid:    %s\n\n", money(d.TotalPayment))

	if len(d.Businesses) > 0 {
		tw := table(w)
		fmt.Fprintln(tw, "BUSINESS\tCREDIT\tPAID\tLAST ACTIVITY")
		for _, b := range d.Businesses {
			last := "-"
			if b.LastTransactionAt != nil {
				last = ledger.DisplayDate(*b.LastTransactionAt, time.Now())
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, money(b.TotalCredit), money(b.TotalPayment), last)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(d.RecentTransactions) > 0 {
		fmt.Fprintln(w, "Recent activity")
		view := ledger.BuildView(d.RecentTransactions, ledger.CustomerWallet, ledger.Filter{}, time.Now())
		printGroups(w, view.Groups, nil)
	}
}

func printBusinesses(w io.Writer, businesses []models.Business) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCITY")
	for _, b := range businesses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Category, b.City)
	}
	tw.Flush()
}

func printBusinessProfile(w io.Writer, p *models.BusinessProfile) {
	fmt.Fprintf(w, "%s\n", p.Business.Name)
	if p.Business.Description != "" {
		fmt.Fprintf(w, "%s\n", p.Business.Description)
	}
	fmt.Fprintf(w, "%s, %s\n\n", p.Business.City, p.Business.State)
	if len(p.Offers) > 0 {
		printOffers(w, p.Offers)
		fmt.Fprintln(w)
	}
	printProducts(w, p.Products)
}

// printView prints a ledger view. With running set, each entry also shows the
// balance after it.
func printView(w io.Writer, view ledger.View, running bool) {
	if len(view.Groups) == 0 {
		fmt.Fprintln(w, "No transactions")
		return
	}

	var balances map[string]string
	if running {
		balances = make(map[string]string)
		for _, e := range ledger.RunningBalances(ledger.Flatten(view.Groups), view.Summary.Viewpoint) {
			balances[e.Transaction.ID] = invoice.FormatCurrency(e.Balance)
		}
	}
	printGroups(w, view.Groups, balances)

	s := view.Summary
	fmt.Fprintf(w, "\nCredit %s  Paid %s\n", invoice.FormatCurrency(s.TotalCredit), invoice.FormatCurrency(s.TotalPayment))
	fmt.Fprintf(w, "%s %s\n", s.Label(), invoice.FormatCurrency(s.Balance.Abs()))
	if s.Malformed > 0 {
		fmt.Fprintf(w, "(%d entries could not be read and count as zero)\n", s.Malformed)
	}
}

func printGroups(w io.Writer, groups []ledger.DateGroup, balances map[string]string) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s\n", g.DisplayDate)
		tw := table(w)
		for _, t := range g.Data {
			who := t.BusinessName
			if who == "" {
				who = t.CustomerName
			}
			line := fmt.Sprintf("  %s\t%s\t%s\t%s\t%s", t.CreatedAt.Local().Format("15:04"), t.TransactionType, money(t.Amount), who, t.Notes)
			if balances != nil {
				line += "\t" + balances[t.ID]
			}
			fmt.Fprintln(tw, line)
		}
		tw.Flush()
	}
}

func printOffers(w io.Writer, offers []models.Offer) {
	tw := table(w)
	fmt.Fprintln(tw, "OFFER\tDISCOUNT\tVALID UNTIL\tSTATUS")
	for _, o := range offers {
		until := "-"
		if o.ValidUntil != nil {
			until = o.ValidUntil.Local().Format("2 Jan 2006")
		}
		status := "active"
		if !o.IsActive {
			status = "paused"
		}
		fmt.Fprintf(tw, "%s\t%s%%\t%s\t%s\n", o.Title, o.DiscountPercent.String(), until, status)
	}
	tw.Flush()
}

func printProducts(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "PRODUCT\tPRICE\tUNIT")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, money(p.Price), p.Unit)
	}
	tw.Flush()
}

func printTotals(w io.Writer, t invoice.Totals) {
	tw := table(w)
	fmt.Fprintf(tw, "Subtotal\t%s\n", invoice.FormatCurrency(t.Subtotal))
	fmt.Fprintf(tw, "CGST\t%s\n", invoice.FormatCurrency(t.CGST))
	fmt.Fprintf(tw, "SGST\t%s\n", invoice.FormatCurrency(t.SGST))
	fmt.Fprintf(tw, "Total\t%s\n", invoice.FormatCurrency(t.Total))
	tw.Flush()
}
