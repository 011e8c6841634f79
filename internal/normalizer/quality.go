package normalizer

import (
	"sort"
	"time"

	"fjacquet/bill-analyzer/internal/models"

	"gonum.org/v1/gonum/stat"
)

// QualityReport summarizes a normalized ledger for data-quality review.
type QualityReport struct {
	TotalRows     int             `json:"total_rows"`
	DuplicateRows int             `json:"duplicate_rows"`
	DateRange     *DateRange      `json:"date_range,omitempty"`
	Amounts       *AmountStats    `json:"amounts,omitempty"`
	Categories    CategoryQuality `json:"categories"`
}

// DateRange is the covered period of a ledger.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	SpanDays int       `json:"span_days"`
}

// AmountStats describes the amount distribution.
type AmountStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// CategoryQuality lists category coverage.
type CategoryQuality struct {
	Unique     int             `json:"unique"`
	MostCommon []CategoryCount `json:"most_common"`
}

// CategoryCount pairs a category with its number of rows.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Inspect builds the quality report of a ledger. It never modifies it.
func Inspect(l models.Ledger) QualityReport {
	report := QualityReport{TotalRows: l.Len()}
	if l.IsEmpty() {
		return report
	}

	type rowKey struct {
		date                                 time.Time
		amount, desc, category, account, typ string
	}
	seen := make(map[rowKey]bool, l.Len())
	counts := make(map[string]int)
	amounts := make([]float64, 0, l.Len())
	for _, tx := range l.All() {
		key := rowKey{tx.Date, tx.Amount.String(), tx.Description, tx.Category, tx.Account, tx.Type}
		if seen[key] {
			report.DuplicateRows++
		}
		seen[key] = true
		counts[tx.Category]++
		amounts = append(amounts, tx.AmountFloat())
	}

	first, last, _ := l.DateRange()
	report.DateRange = &DateRange{Start: first, End: last, SpanDays: l.DaySpan()}

	sort.Float64s(amounts)
	report.Amounts = &AmountStats{
		Min:    models.Round(amounts[0], 2),
		Max:    models.Round(amounts[len(amounts)-1], 2),
		Mean:   models.Round(stat.Mean(amounts, nil), 2),
		Median: models.Round(median(amounts), 2),
	}

	report.Categories.Unique = len(counts)
	for c, n := range counts {
		report.Categories.MostCommon = append(report.Categories.MostCommon, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(report.Categories.MostCommon, func(i, j int) bool {
		a, b := report.Categories.MostCommon[i], report.Categories.MostCommon[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(report.Categories.MostCommon) > 5 {
		report.Categories.MostCommon = report.Categories.MostCommon[:5]
	}
	return report
}

// median of an ascending slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
