// Package metrics computes the analytical views of a ledger. Every function is
// pure: it reads a models.Ledger and returns new rows.
package metrics

import (
	"sort"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"
)

// MonthlyRow aggregates one populated calendar month.
type MonthlyRow struct {
	Month         string  `json:"month" csv:"month"`
	Total         float64 `json:"total" csv:"total"`
	Mean          float64 `json:"mean" csv:"average"`
	Count         int     `json:"count" csv:"transactions"`
	CategoryCount int     `json:"category_count" csv:"categories"`
}

// CategoryRow aggregates one category.
type CategoryRow struct {
	Category   string         `json:"category" csv:"category"`
	Total      float64        `json:"total" csv:"total"`
	Mean       float64        `json:"mean" csv:"average"`
	Count      int            `json:"count" csv:"transactions"`
	StdDev     models.Measure `json:"std_dev" csv:"std_dev"`
	Percentage models.Measure `json:"percentage" csv:"percentage"`
}

// YearRow aggregates one calendar year.
type YearRow struct {
	Year          int     `json:"year" csv:"year"`
	Total         float64 `json:"total" csv:"total"`
	Mean          float64 `json:"mean" csv:"average"`
	Count         int     `json:"count" csv:"transactions"`
	CategoryCount int     `json:"category_count" csv:"categories"`
}

// Overview holds the headline figures of a ledger.
type Overview struct {
	Total        float64   `json:"total"`
	Mean         float64   `json:"mean"`
	Count        int       `json:"count"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DaySpan      int       `json:"day_span"`
	DailyAverage float64   `json:"daily_average"`
}

// DailyTotal is the spending of one calendar day with at least one
// transaction.
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
	Count int       `json:"count"`
}

// MonthlySummary returns one row per populated month, ascending.
func MonthlySummary(l models.Ledger) []MonthlyRow {
	groups := make(map[string]*group)
	categories := make(map[string]map[string]bool)
	var keys []string
	for _, tx := range l.All() {
		key := tx.Month()
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			categories[key] = make(map[string]bool)
			keys = append(keys, key)
		}
		g.add(tx)
		categories[key][tx.Category] = true
	}
	sort.Strings(keys)

	rows := make([]MonthlyRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, MonthlyRow{
			Month:         key,
			Total:         g.totalFloat(),
			Mean:          g.mean(),
			Count:         g.count(),
			CategoryCount: len(categories[key]),
		})
	}
	return rows
}

// CategorySummary returns one row per category ordered by total descending,
// ties by name. Percentages are shares of the grand total.
func CategorySummary(l models.Ledger) []CategoryRow {
	groups := make(map[string]*group)
	grand := &group{}
	for _, tx := range l.All() {
		g, ok := groups[tx.Category]
		if !ok {
			g = &group{}
			groups[tx.Category] = g
		}
		g.add(tx)
		grand.add(tx)
	}

	grandTotal := grand.total.InexactFloat64()
	rows := make([]CategoryRow, 0, len(groups))
	for name, g := range groups {
		pct := models.UndefinedMeasure()
		if grandTotal > 0 {
			pct = models.Of(models.Round(g.total.InexactFloat64()/grandTotal*100, 1))
		}
		rows = append(rows, CategoryRow{
			Category:   name,
			Total:      g.totalFloat(),
			Mean:       g.mean(),
			Count:      g.count(),
			StdDev:     sampleStdDev(g.amounts).Round(2),
			Percentage: pct,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// YearlySummary returns one row per calendar year, ascending.
func YearlySummary(l models.Ledger) []YearRow {
	groups := make(map[int]*group)
	categories := make(map[int]map[string]bool)
	var years []int
	for _, tx := range l.All() {
		y := tx.Date.Year()
		g, ok := groups[y]
		if !ok {
			g = &group{}
			groups[y] = g
			categories[y] = make(map[string]bool)
			years = append(years, y)
		}
		g.add(tx)
		categories[y][tx.Category] = true
	}
	sort.Ints(years)

	rows := make([]YearRow, 0, len(years))
	for _, y := range years {
		g := groups[y]
		rows = append(rows, YearRow{
			Year:          y,
			Total:         g.totalFloat(),
			Mean:          g.mean(),
			Count:         g.count(),
			CategoryCount: len(categories[y]),
		})
	}
	return rows
}

// Summarize computes the overview figures. The daily average divides by the
// day span, at least one day.
func Summarize(l models.Ledger) Overview {
	g := &group{}
	for _, tx := range l.All() {
		g.add(tx)
	}
	o := Overview{Total: g.totalFloat(), Mean: g.mean(), Count: g.count()}
	if first, last, ok := l.DateRange(); ok {
		o.Start, o.End = first, last
		o.DaySpan = l.DaySpan()
	}
	o.DailyAverage = models.Round(g.total.InexactFloat64()/float64(max(o.DaySpan, 1)), 2)
	return o
}

// DailyTotals returns the spending of every day with transactions, ascending.
func DailyTotals(l models.Ledger) []DailyTotal {
	var out []DailyTotal
	var current *group
	var currentDay time.Time
	flush := func() {
		if current != nil {
			out = append(out, DailyTotal{Date: currentDay, Total: current.totalFloat(), Count: current.count()})
		}
	}
	for _, tx := range l.All() {
		d := dateutils.Day(tx.Date)
		if current == nil || !d.Equal(currentDay) {
			flush()
			current = &group{}
			currentDay = d
		}
		current.add(tx)
	}
	flush()
	return out
}
