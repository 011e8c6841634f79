package metrics

import (
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"
)

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days is the inclusive number of calendar days in the range.
func (r DateRange) Days() int {
	return dateutils.DaysBetween(r.Start, r.End) + 1
}

func (r DateRange) overlaps(o DateRange) bool {
	return !dateutils.Day(r.Start).After(dateutils.Day(o.End)) && !dateutils.Day(o.Start).After(dateutils.Day(r.End))
}

func (r DateRange) String() string {
	return dateutils.ToISODate(r.Start) + ".." + dateutils.ToISODate(r.End)
}

// PeriodQuery compares one category across two disjoint ranges. An empty
// category compares all spending.
type PeriodQuery struct {
	Category string
	First    DateRange
	Second   DateRange
}

// PeriodStats summarizes one side of a comparison.
type PeriodStats struct {
	Range        DateRange      `json:"range"`
	Total        float64        `json:"total"`
	Count        int            `json:"count"`
	Mean         models.Measure `json:"mean"`
	DaySpan      int            `json:"day_span"`
	DailyAverage float64        `json:"daily_average"`
}

// PeriodComparison holds both periods and the relative changes from the
// first to the second, in percent.
type PeriodComparison struct {
	Category       string         `json:"category"`
	First          PeriodStats    `json:"first"`
	Second         PeriodStats    `json:"second"`
	TotalChangePct models.Measure `json:"total_change_pct"`
	CountChangePct models.Measure `json:"count_change_pct"`
	MeanChangePct  models.Measure `json:"mean_change_pct"`
}

// ComparePeriods compares the spending of q.Category in two date ranges.
// A zero baseline yields an Unbounded change rather than an error.
func ComparePeriods(l models.Ledger, q PeriodQuery) Result[PeriodComparison] {
	for _, r := range []DateRange{q.First, q.Second} {
		if r.Start.IsZero() || r.End.IsZero() {
			return Fail[PeriodComparison](KindInvalidRequest, "both periods need a start and an end")
		}
		if r.Start.After(r.End) {
			return Fail[PeriodComparison](KindInvalidRequest, "period %s starts after it ends", r)
		}
	}
	if q.First.overlaps(q.Second) {
		return Fail[PeriodComparison](KindInvalidRequest, "periods %s and %s overlap", q.First, q.Second)
	}

	var categories []string
	if c := strings.TrimSpace(q.Category); c != "" {
		categories = []string{c}
	}
	first := periodStats(l, categories, q.First)
	second := periodStats(l, categories, q.Second)
	if first.Count == 0 && second.Count == 0 {
		return Fail[PeriodComparison](KindEmptyFilter, "no %s transactions in either period", q.Category)
	}

	return OK(PeriodComparison{
		Category:       q.Category,
		First:          first,
		Second:         second,
		TotalChangePct: models.PercentChange(first.Total, second.Total, 2),
		CountChangePct: models.PercentChange(float64(first.Count), float64(second.Count), 2),
		MeanChangePct:  meanChange(first.Mean, second.Mean),
	})
}

func periodStats(l models.Ledger, categories []string, r DateRange) PeriodStats {
	g := &group{}
	for _, tx := range l.Filter(models.Filter{Categories: categories, Start: r.Start, End: r.End}).All() {
		g.add(tx)
	}
	s := PeriodStats{Range: r, Total: g.totalFloat(), Count: g.count(), DaySpan: r.Days(), Mean: models.UndefinedMeasure()}
	if g.count() > 0 {
		s.Mean = models.Of(g.mean())
	}
	s.DailyAverage = models.Round(g.total.InexactFloat64()/float64(s.DaySpan), 2)
	return s
}

func meanChange(a, b models.Measure) models.Measure {
	if !a.IsDefined() || !b.IsDefined() {
		if !a.IsDefined() && b.IsDefined() {
			return models.UnboundedMeasure()
		}
		return models.UndefinedMeasure()
	}
	return models.PercentChange(a.Value, b.Value, 2)
}
