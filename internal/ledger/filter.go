package ledger

import (
	"strings"

	"github.com/ekthaa/customer-client/internal/models"
)

// Filter narrows a transaction list. The zero value keeps everything.
type Filter struct {
	Type  models.TransactionType
	Query string
}

// Match reports whether t passes f. Query is a case-insensitive substring
// match over the customer name, business name and notes.
func (f Filter) Match(t models.Transaction) bool {
	if f.Type != "" && t.TransactionType != f.Type {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{t.CustomerName, t.BusinessName, t.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the transactions that pass f in a new slice.
func Apply(txs []models.Transaction, f Filter) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
