package ledger

import (
	"testing"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// now is mid-afternoon on 16 Oct 2026 in IST
var now = time.Date(2026, time.October, 16, 15, 0, 0, 0, ist)

func tx(id string, typ models.TransactionType, amount float64, at time.Time) models.Transaction {
	return models.Transaction{
		ID:              id,
		Amount:          models.AmountFromFloat(amount),
		TransactionType: typ,
		CreatedBy:       models.PartyBusiness,
		CreatedAt:       at,
	}
}

func sample() []models.Transaction {
	return []models.Transaction{
		tx("t1", models.Credit, 100, now.Add(-1*time.Hour)),
		tx("t2", models.Payment, 40, now.AddDate(0, 0, -1)),
		tx("t3", models.Credit, 10, now.Add(-3*time.Hour)),
		tx("t4", models.Credit, 5, time.Date(2026, time.March, 2, 10, 0, 0, 0, ist)),
		tx("t5", models.Payment, 20, time.Date(2025, time.December, 31, 23, 30, 0, 0, ist)),
	}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestGroupByDatePartition(t *testing.T) {
	input := sample()

	for _, dir := range []Direction{Ascending, Descending} {
		t.Run(dir.String(), func(t *testing.T) {
			groups := GroupByDate(input, dir, now)

			seen := make(map[string]int)
			for _, g := range groups {
				for _, item := range g.Data {
					seen[item.ID]++
					assert.Equal(t, g.Date, dayOf(item.CreatedAt, ist), "entry %s grouped under wrong day", item.ID)
				}
			}
			assert.Len(t, seen, len(input))
			for id, n := range seen {
				assert.Equal(t, 1, n, "transaction %s appears in %d groups", id, n)
			}
		})
	}
}

func TestGroupByDateOrdering(t *testing.T) {
	asc := GroupByDate(sample(), Ascending, now)
	require.Len(t, asc, 4)
	assert.Equal(t, []string{"31 Dec, 2025", "2 Mar", "Yesterday", "Today"}, displayDates(asc))
	assert.Equal(t, []string{"t3", "t1"}, ids(asc[3].Data))

	desc := GroupByDate(sample(), Descending, now)
	require.Len(t, desc, 4)
	assert.Equal(t, []string{"Today", "Yesterday", "2 Mar", "31 Dec, 2025"}, displayDates(desc))
	assert.Equal(t, []string{"t1", "t3"}, ids(desc[0].Data))
}

func TestGroupByDateIdempotent(t *testing.T) {
	input := sample()
	// same timestamp, different ids: tie broken by id regardless of input order
	input = append(input, tx("t0", models.Credit, 1, now.Add(-1*time.Hour)))

	for _, dir := range []Direction{Ascending, Descending} {
		first := GroupByDate(input, dir, now)
		second := GroupByDate(Flatten(first), dir, now)
		assert.Equal(t, first, second, "direction %s", dir)
		assert.Equal(t, first, GroupByDate(input, dir, now))
	}
}

func TestGroupByDateDoesNotMutateInput(t *testing.T) {
	input := sample()
	before := ids(input)
	GroupByDate(input, Descending, now)
	assert.Equal(t, before, ids(input))
}

func TestGroupByDateEmpty(t *testing.T) {
	groups := GroupByDate(nil, Ascending, now)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupByDateUsesLocalCalendarDay(t *testing.T) {
	// 20:00 UTC on the 15th is already the 16th in IST
	late := tx("late", models.Credit, 1, time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC))
	groups := GroupByDate([]models.Transaction{late}, Ascending, now)
	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0].DisplayDate)
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"today", now.Add(-14 * time.Hour), "Today"},
		{"yesterday", time.Date(2026, time.October, 15, 23, 59, 0, 0, ist), "Yesterday"},
		{"two days ago", time.Date(2026, time.October, 14, 12, 0, 0, 0, ist), "14 Oct"},
		{"earlier this year", time.Date(2026, time.January, 1, 0, 0, 0, 0, ist), "1 Jan"},
		{"previous year", time.Date(2025, time.October, 16, 12, 0, 0, 0, ist), "16 Oct, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayDate(tt.day, now))
		})
	}
}

func TestDisplayDateYesterdayAcrossYearBoundary(t *testing.T) {
	newYear := time.Date(2027, time.January, 1, 9, 0, 0, 0, ist)
	assert.Equal(t, "Yesterday", DisplayDate(time.Date(2026, time.December, 31, 18, 0, 0, 0, ist), newYear))
}

func TestSummarize(t *testing.T) {
	txs := []models.Transaction{
		tx("a", models.Credit, 100, now),
		tx("b", models.Payment, 40, now),
		tx("c", models.Credit, 10, now),
	}

	ledger := Summarize(txs, PerBusinessLedger)
	assert.True(t, decimal.NewFromInt(110).Equal(ledger.TotalCredit))
	assert.True(t, decimal.NewFromInt(40).Equal(ledger.TotalPayment))
	assert.True(t, decimal.NewFromInt(-70).Equal(ledger.Balance), "ledger balance is payment - credit")
	assert.Equal(t, "You will give", ledger.Label())

	wallet := Summarize(txs, CustomerWallet)
	assert.True(t, decimal.NewFromInt(70).Equal(wallet.Balance), "wallet balance is credit - payment")
	assert.Equal(t, "You will give", wallet.Label())
	assert.Equal(t, 3, wallet.Count)
}

func TestSummaryLabelWhenCustomerOverpaid(t *testing.T) {
	txs := []models.Transaction{
		tx("a", models.Credit, 50, now),
		tx("b", models.Payment, 80, now),
	}
	assert.Equal(t, "You will get", Summarize(txs, PerBusinessLedger).Label())
	assert.Equal(t, "You will get", Summarize(txs, CustomerWallet).Label())
	assert.Equal(t, "Settled up", Summarize(nil, CustomerWallet).Label())
}

func TestSummarizeMalformed(t *testing.T) {
	txs := []models.Transaction{
		tx("a", models.Credit, 100, now),
		{ID: "b", Amount: models.ParseAmount("abc"), TransactionType: models.Payment, CreatedAt: now},
		{ID: "c", Amount: models.AmountFromFloat(7), TransactionType: "refund", CreatedAt: now},
	}
	s := Summarize(txs, PerBusinessLedger)
	assert.True(t, decimal.NewFromInt(100).Equal(s.TotalCredit))
	assert.True(t, s.TotalPayment.IsZero())
	assert.Equal(t, 2, s.Malformed)
}

func TestSummarizeMissingAndNegativeAmounts(t *testing.T) {
	txs := []models.Transaction{
		tx("a", models.Credit, 100, now),
		{ID: "missing", TransactionType: models.Credit, CreatedAt: now},
		tx("negative", models.Payment, -50, now),
		tx("zero", models.Payment, 0, now),
	}
	for _, vp := range []Viewpoint{PerBusinessLedger, CustomerWallet} {
		s := Summarize(txs, vp)
		assert.Equal(t, 4, s.Count)
		assert.Equal(t, 3, s.Malformed)
		assert.True(t, decimal.NewFromInt(100).Equal(s.TotalCredit))
		assert.True(t, s.TotalPayment.IsZero(), "negative payment must not flip the balance")
	}

	entries := RunningBalances(txs, PerBusinessLedger)
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.True(t, decimal.NewFromInt(-100).Equal(e.Balance), e.Transaction.ID)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, PerBusinessLedger)
	assert.True(t, s.TotalCredit.IsZero())
	assert.True(t, s.TotalPayment.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.Zero(t, s.Count)
}

func TestFilter(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", TransactionType: models.Credit, BusinessName: "Sharma Kirana", Notes: "rice"},
		{ID: "2", TransactionType: models.Payment, BusinessName: "Sharma Kirana", Notes: "upi"},
		{ID: "3", TransactionType: models.Credit, BusinessName: "Gupta Medical", CustomerName: "Asha"},
	}

	assert.Equal(t, []string{"1", "3"}, ids(Apply(txs, Filter{Type: models.Credit})))
	assert.Equal(t, []string{"1", "2"}, ids(Apply(txs, Filter{Query: "  sharma "})))
	assert.Equal(t, []string{"3"}, ids(Apply(txs, Filter{Query: "ASHA"})))
	assert.Equal(t, []string{"2"}, ids(Apply(txs, Filter{Type: models.Payment, Query: "kirana"})))
	assert.Len(t, Apply(txs, Filter{}), 3)
	assert.Equal(t, "1", txs[0].ID)
}

func TestBuildViewFiltersBeforeSummarizing(t *testing.T) {
	view := BuildView(sample(), CustomerWallet, Filter{Type: models.Credit}, now)

	assert.True(t, decimal.NewFromInt(115).Equal(view.Summary.TotalCredit))
	assert.True(t, view.Summary.TotalPayment.IsZero())
	require.NotEmpty(t, view.Groups)
	assert.Equal(t, "Today", view.Groups[0].DisplayDate, "wallet view is newest first")

	ledgerView := BuildView(sample(), PerBusinessLedger, Filter{}, now)
	assert.Equal(t, "Today", ledgerView.Groups[len(ledgerView.Groups)-1].DisplayDate, "ledger view is oldest first")
}

func TestRunningBalances(t *testing.T) {
	entries := RunningBalances(sample(), PerBusinessLedger)
	require.Len(t, entries, 5)

	var got []string
	for _, e := range entries {
		got = append(got, e.Balance.String())
	}
	// t5 +20, t4 -5, t2 +40, t3 -10, t1 -100
	assert.Equal(t, []string{"20", "15", "55", "45", "-55"}, got)
	assert.True(t, entries[len(entries)-1].Balance.Equal(Summarize(sample(), PerBusinessLedger).Balance))
}

func displayDates(groups []DateGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.DisplayDate)
	}
	return out
}
