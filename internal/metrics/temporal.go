package metrics

import (
	"sort"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"
)

// WeekdayRow aggregates one day of the week.
type WeekdayRow struct {
	Day   string  `json:"day" csv:"day"`
	Mean  float64 `json:"mean" csv:"average"`
	Total float64 `json:"total" csv:"total"`
	Count int     `json:"count" csv:"transactions"`
}

// SeasonRow aggregates one season.
type SeasonRow struct {
	Season string  `json:"season" csv:"season"`
	Mean   float64 `json:"mean" csv:"average"`
	Total  float64 `json:"total" csv:"total"`
	Count  int     `json:"count" csv:"transactions"`
}

// YearMonthRow is the total of one calendar month within one year.
type YearMonthRow struct {
	Year  int     `json:"year" csv:"year"`
	Month string  `json:"month" csv:"month"`
	Total float64 `json:"total" csv:"total"`
}

// GrowthRow carries month-over-month and year-over-year changes in percent.
type GrowthRow struct {
	Month string         `json:"month" csv:"month"`
	Total float64        `json:"total" csv:"total"`
	MoM   models.Measure `json:"mom_growth" csv:"mom_growth"`
	YoY   models.Measure `json:"yoy_growth" csv:"yoy_growth"`
}

// WeeklyPattern aggregates by weekday, Monday first. Days without
// transactions are omitted.
func WeeklyPattern(l models.Ledger) []WeekdayRow {
	groups := make(map[string]*group, 7)
	for _, tx := range l.All() {
		day := tx.Date.Weekday().String()
		if groups[day] == nil {
			groups[day] = &group{}
		}
		groups[day].add(tx)
	}

	var rows []WeekdayRow
	for _, wd := range dateutils.WeekOrder {
		g, ok := groups[wd.String()]
		if !ok {
			continue
		}
		rows = append(rows, WeekdayRow{Day: wd.String(), Mean: g.mean(), Total: g.totalFloat(), Count: g.count()})
	}
	return rows
}

// SeasonalSummary aggregates by season in Spring, Summer, Fall, Winter
// order. Empty seasons are omitted.
func SeasonalSummary(l models.Ledger) []SeasonRow {
	groups := make(map[string]*group, 4)
	for _, tx := range l.All() {
		s := dateutils.Season(tx.Date.Month())
		if groups[s] == nil {
			groups[s] = &group{}
		}
		groups[s].add(tx)
	}

	var rows []SeasonRow
	for _, s := range dateutils.SeasonOrder {
		g, ok := groups[s]
		if !ok {
			continue
		}
		rows = append(rows, SeasonRow{Season: s, Mean: g.mean(), Total: g.totalFloat(), Count: g.count()})
	}
	return rows
}

// YearlyComparison returns monthly totals per year. It is empty unless the
// ledger spans at least two calendar years.
func YearlyComparison(l models.Ledger) []YearMonthRow {
	type key struct {
		year  int
		month int
	}
	groups := make(map[key]*group)
	years := make(map[int]bool)
	for _, tx := range l.All() {
		k := key{tx.Date.Year(), int(tx.Date.Month())}
		if groups[k] == nil {
			groups[k] = &group{}
		}
		groups[k].add(tx)
		years[k.year] = true
	}
	if len(years) < 2 {
		return nil
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	rows := make([]YearMonthRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, YearMonthRow{
			Year:  k.year,
			Month: time.Month(k.month).String()[:3],
			Total: groups[k].totalFloat(),
		})
	}
	return rows
}

// GrowthRates computes, for every populated month after the first, the
// change against the previous populated month. With at least twelve
// populated months, year-over-year change compares month i with month i-12
// of the sorted series and rows without such a predecessor are dropped.
func GrowthRates(l models.Ledger) []GrowthRow {
	monthly := MonthlySummary(l)
	if len(monthly) < 2 {
		return nil
	}

	first := 1
	withYoY := len(monthly) >= 12
	if withYoY {
		first = 12
	}

	rows := make([]GrowthRow, 0, len(monthly)-first)
	for i := first; i < len(monthly); i++ {
		row := GrowthRow{
			Month: monthly[i].Month,
			Total: monthly[i].Total,
			MoM:   models.PercentChange(monthly[i-1].Total, monthly[i].Total, 2),
			YoY:   models.UndefinedMeasure(),
		}
		if withYoY {
			row.YoY = models.PercentChange(monthly[i-12].Total, monthly[i].Total, 2)
		}
		rows = append(rows, row)
	}
	return rows
}
