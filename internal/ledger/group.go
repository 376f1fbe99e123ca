package ledger

import (
	"sort"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
)

// DateGroup is the set of transactions sharing one calendar day.
type DateGroup struct {
	Date        time.Time // midnight of the day, in the grouping location
	DisplayDate string
	Data        []models.Transaction
}

// GroupByDate partitions txs by the calendar day of CreatedAt in now's
// location. Groups and the entries inside each group are both ordered by dir.
// Ties on CreatedAt are broken by ID so the output does not depend on the
// input order.
func GroupByDate(txs []models.Transaction, dir Direction, now time.Time) []DateGroup {
	if len(txs) == 0 {
		return []DateGroup{}
	}
	loc := now.Location()

	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == Descending {
			return after(sorted[i], sorted[j])
		}
		return after(sorted[j], sorted[i])
	})

	var groups []DateGroup
	index := make(map[time.Time]int)
	for _, t := range sorted {
		day := dayOf(t.CreatedAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DateGroup{
				Date:        day,
				DisplayDate: DisplayDate(day, now),
			})
		}
		groups[i].Data = append(groups[i].Data, t)
	}
	return groups
}

// Flatten concatenates the groups back into one list in display order.
func Flatten(groups []DateGroup) []models.Transaction {
	var out []models.Transaction
	for _, g := range groups {
		out = append(out, g.Data...)
	}
	return out
}

// DisplayDate labels a calendar day relative to now: "Today", "Yesterday",
// "2 Jan" within the current year and "2 Jan, 2006" otherwise.
func DisplayDate(day, now time.Time) string {
	loc := now.Location()
	day = dayOf(day, loc)
	today := dayOf(now, loc)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case day.Year() == today.Year():
		return day.Format("2 Jan")
	default:
		return day.Format("2 Jan, 2006")
	}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// after reports whether a sorts after b in ascending order.
func after(a, b models.Transaction) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
