// Package ledger turns the flat transaction lists returned by the backend
// into the date-grouped, summarised structures the ledger screens render.
//
// Everything here is a pure function of its input: nothing is cached between
// calls and input slices are never modified.
package ledger

import (
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/shopspring/decimal"
)

// Direction orders groups and the entries inside them.
type Direction int

const (
	// Ascending puts the oldest entry first.
	Ascending Direction = iota
	// Descending puts the newest entry first.
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Viewpoint selects the sign convention of the net balance. Both viewpoints
// describe the same debt; they only differ in which side is positive.
type Viewpoint int

const (
	// PerBusinessLedger is the customer's ledger with one business, drawn as
	// a chat transcript. Balance = total payment - total credit, so a positive
	// balance means the customer will get money back.
	PerBusinessLedger Viewpoint = iota
	// CustomerWallet is the feed of every transaction across businesses.
	// Balance = total credit - total payment, so a positive balance means the
	// customer will give money.
	CustomerWallet
)

func (v Viewpoint) String() string {
	switch v {
	case PerBusinessLedger:
		return "per-business-ledger"
	case CustomerWallet:
		return "customer-wallet"
	default:
		return "unknown"
	}
}

// Direction is the order a viewpoint's screen lists entries in.
func (v Viewpoint) Direction() Direction {
	if v == CustomerWallet {
		return Descending
	}
	return Ascending
}

// signed returns the contribution of t to the balance under v. Entries with
// an unknown type or an unusable amount contribute nothing.
func (v Viewpoint) signed(t models.Transaction) decimal.Decimal {
	if !t.Amount.Valid() {
		return decimal.Zero
	}
	amount := t.Amount.Decimal
	switch t.TransactionType {
	case models.Credit:
		if v == PerBusinessLedger {
			return amount.Neg()
		}
		return amount
	case models.Payment:
		if v == PerBusinessLedger {
			return amount
		}
		return amount.Neg()
	default:
		return decimal.Zero
	}
}
