package metrics

import (
	"sort"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"
)

// CategoryQuery selects categories and an optional inclusive date range.
// No categories means all of them.
type CategoryQuery struct {
	Categories []string
	Start      time.Time
	End        time.Time
}

// CategoryMetricsView is the drill-down over the selected categories.
type CategoryMetricsView struct {
	Summary      SelectionSummary     `json:"summary"`
	Stats        []CategoryStats      `json:"stats"`
	MonthlyTrend []CategoryMonthRow   `json:"monthly_trend"`
	Weekly       []CategoryWeekdayRow `json:"weekly"`
}

// SelectionSummary describes the filtered rows as a whole.
type SelectionSummary struct {
	Total         float64   `json:"total"`
	Count         int       `json:"count"`
	CategoryCount int       `json:"category_count"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DaySpan       int       `json:"day_span"`
}

// CategoryStats are the per-category statistics of the selection.
type CategoryStats struct {
	Category string         `json:"category"`
	Total    float64        `json:"total"`
	Mean     float64        `json:"mean"`
	StdDev   models.Measure `json:"std_dev"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Count    int            `json:"count"`
}

// CategoryMonthRow is the total of one category in one month.
type CategoryMonthRow struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// CategoryWeekdayRow aggregates one category on one weekday.
type CategoryWeekdayRow struct {
	Category string  `json:"category"`
	Day      string  `json:"day"`
	Mean     float64 `json:"mean"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// CategoryMetrics filters the ledger and computes the drill-down views.
// An empty selection is a KindEmptyFilter failure.
func CategoryMetrics(l models.Ledger, q CategoryQuery) Result[CategoryMetricsView] {
	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return Fail[CategoryMetricsView](KindInvalidRequest, "start %s is after end %s",
			dateutils.ToISODate(q.Start), dateutils.ToISODate(q.End))
	}
	selected := l.Filter(models.Filter{Categories: q.Categories, Start: q.Start, End: q.End})
	if selected.IsEmpty() {
		return Fail[CategoryMetricsView](KindEmptyFilter, "no transactions for categories [%s] in the selected range",
			strings.Join(q.Categories, ", "))
	}

	view := CategoryMetricsView{}
	overview := Summarize(selected)
	view.Summary = SelectionSummary{
		Total:   overview.Total,
		Count:   overview.Count,
		Start:   overview.Start,
		End:     overview.End,
		DaySpan: overview.DaySpan,
	}

	byCategory := make(map[string]*group)
	byMonth := make(map[[2]string]*group)
	byWeekday := make(map[string]map[time.Weekday]*group)
	for _, tx := range selected.All() {
		if byCategory[tx.Category] == nil {
			byCategory[tx.Category] = &group{}
			byWeekday[tx.Category] = make(map[time.Weekday]*group)
		}
		byCategory[tx.Category].add(tx)

		mk := [2]string{tx.Month(), tx.Category}
		if byMonth[mk] == nil {
			byMonth[mk] = &group{}
		}
		byMonth[mk].add(tx)

		wd := tx.Date.Weekday()
		if byWeekday[tx.Category][wd] == nil {
			byWeekday[tx.Category][wd] = &group{}
		}
		byWeekday[tx.Category][wd].add(tx)
	}
	view.Summary.CategoryCount = len(byCategory)

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g := byCategory[name]
		sorted := sortedCopy(g.amounts)
		view.Stats = append(view.Stats, CategoryStats{
			Category: name,
			Total:    g.totalFloat(),
			Mean:     g.mean(),
			StdDev:   sampleStdDev(g.amounts).Round(2),
			Min:      models.Round(sorted[0], 2),
			Max:      models.Round(sorted[len(sorted)-1], 2),
			Count:    g.count(),
		})
		for _, wd := range dateutils.WeekOrder {
			wg, ok := byWeekday[name][wd]
			if !ok {
				continue
			}
			view.Weekly = append(view.Weekly, CategoryWeekdayRow{
				Category: name,
				Day:      wd.String(),
				Mean:     wg.mean(),
				Total:    wg.totalFloat(),
				Count:    wg.count(),
			})
		}
	}

	monthKeys := make([][2]string, 0, len(byMonth))
	for k := range byMonth {
		monthKeys = append(monthKeys, k)
	}
	sort.Slice(monthKeys, func(i, j int) bool {
		if monthKeys[i][0] != monthKeys[j][0] {
			return monthKeys[i][0] < monthKeys[j][0]
		}
		return monthKeys[i][1] < monthKeys[j][1]
	})
	for _, k := range monthKeys {
		view.MonthlyTrend = append(view.MonthlyTrend, CategoryMonthRow{
			Month:    k[0],
			Category: k[1],
			Total:    byMonth[k].totalFloat(),
		})
	}

	return OK(view)
}
