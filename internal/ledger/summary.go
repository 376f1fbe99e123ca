package ledger

import (
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/shopspring/decimal"
)

// Summary holds the totals shown above a ledger.
type Summary struct {
	Viewpoint    Viewpoint
	TotalCredit  decimal.Decimal
	TotalPayment decimal.Decimal
	Balance      decimal.Decimal
	Count        int
	// Malformed counts entries whose amount is missing, unparsable or not
	// positive, or whose type is neither credit nor payment. They are summed
	// as zero.
	Malformed int
}

// Summarize totals txs by type and computes the balance under vp.
func Summarize(txs []models.Transaction, vp Viewpoint) Summary {
	s := Summary{
		Viewpoint:    vp,
		TotalCredit:  decimal.Zero,
		TotalPayment: decimal.Zero,
		Balance:      decimal.Zero,
	}
	for _, t := range txs {
		s.Count++
		if !t.Amount.Valid() || !t.TransactionType.Valid() {
			s.Malformed++
			continue
		}
		switch t.TransactionType {
		case models.Credit:
			s.TotalCredit = s.TotalCredit.Add(t.Amount.Decimal)
		case models.Payment:
			s.TotalPayment = s.TotalPayment.Add(t.Amount.Decimal)
		}
	}

	if vp == CustomerWallet {
		s.Balance = s.TotalCredit.Sub(s.TotalPayment)
	} else {
		s.Balance = s.TotalPayment.Sub(s.TotalCredit)
	}
	return s
}

// Label frames the balance for the customer.
func (s Summary) Label() string {
	if s.Balance.IsZero() {
		return "Settled up"
	}
	owedToCustomer := s.Balance.IsPositive()
	if s.Viewpoint == CustomerWallet {
		owedToCustomer = !owedToCustomer
	}
	if owedToCustomer {
		return "You will get"
	}
	return "You will give"
}

// Entry is a transaction with the balance after it was applied.
type Entry struct {
	Transaction models.Transaction
	Balance     decimal.Decimal
}

// RunningBalances walks txs oldest first and records the cumulative balance
// under vp after each entry.
func RunningBalances(txs []models.Transaction, vp Viewpoint) []Entry {
	ordered := Flatten(GroupByDate(txs, Ascending, time.Now()))
	entries := make([]Entry, 0, len(ordered))
	balance := decimal.Zero
	for _, t := range ordered {
		balance = balance.Add(vp.signed(t))
		entries = append(entries, Entry{Transaction: t, Balance: balance})
	}
	return entries
}

// View is everything a ledger screen needs.
type View struct {
	Groups  []DateGroup
	Summary Summary
}

// BuildView filters txs, groups what is left in the viewpoint's direction
// and summarises the same filtered set.
func BuildView(txs []models.Transaction, vp Viewpoint, f Filter, now time.Time) View {
	visible := Apply(txs, f)
	return View{
		Groups:  GroupByDate(visible, vp.Direction(), now),
		Summary: Summarize(visible, vp),
	}
}
