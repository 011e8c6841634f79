package metrics

import (
	"testing"
	"time"

	"fjacquet/bill-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlySummary(t *testing.T) {
	rows := MonthlySummary(quarterLedger())

	require.Len(t, rows, 3)
	assert.Equal(t, MonthlyRow{Month: "2024-01", Total: 140, Mean: 46.67, Count: 3, CategoryCount: 2}, rows[0])
	assert.Equal(t, MonthlyRow{Month: "2024-02", Total: 80, Mean: 40, Count: 2, CategoryCount: 2}, rows[1])
	assert.Equal(t, MonthlyRow{Month: "2024-03", Total: 80, Mean: 40, Count: 2, CategoryCount: 2}, rows[2])
}

func TestMonthlySummary_SkipsEmptyMonths(t *testing.T) {
	rows := MonthlySummary(ledgerOf(
		tx(day(2024, 1, 3), 5, "a", "Food"),
		tx(day(2024, 4, 3), 5, "b", "Food"),
	))
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-04", rows[1].Month)
}

func TestCategorySummary(t *testing.T) {
	rows := CategorySummary(quarterLedger())
	require.Len(t, rows, 3)

	assert.Equal(t, "Grocery", rows[0].Category)
	assert.Equal(t, 160.0, rows[0].Total)
	assert.Equal(t, models.Of(28.28), rows[0].StdDev)
	assert.Equal(t, models.Of(53.3), rows[0].Percentage)

	assert.Equal(t, "Food", rows[1].Category)
	assert.Equal(t, 100.0, rows[1].Total)
	assert.Equal(t, 25.0, rows[1].Mean)
	assert.Equal(t, 4, rows[1].Count)

	transport := rows[2]
	assert.Equal(t, "Transportation", transport.Category)
	assert.Equal(t, models.UndefinedMeasure(), transport.StdDev, "single sample std-dev is undefined")

	var sum float64
	for _, r := range rows {
		sum += r.Percentage.Value
	}
	assert.InDelta(t, 100, sum, 0.1*float64(len(rows)))
}

func TestCategorySummary_SingleRow(t *testing.T) {
	rows := CategorySummary(ledgerOf(tx(day(2024, 1, 1), 42, "Starbucks", "Food")))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, models.UndefinedMeasure(), rows[0].StdDev)
	assert.Equal(t, models.Of(100), rows[0].Percentage)
}

func TestCategorySummary_TiesSortedByName(t *testing.T) {
	rows := CategorySummary(ledgerOf(
		tx(day(2024, 1, 1), 10, "x", "Zeta"),
		tx(day(2024, 1, 1), 10, "y", "Alpha"),
	))
	assert.Equal(t, "Alpha", rows[0].Category)
	assert.Equal(t, "Zeta", rows[1].Category)
}

func TestCategorySummary_ZeroGrandTotal(t *testing.T) {
	rows := CategorySummary(ledgerOf(tx(day(2024, 1, 1), 0, "free sample", "Food")))
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Percentage.IsDefined())
}

func TestYearlySummary(t *testing.T) {
	rows := YearlySummary(ledgerOf(
		tx(day(2023, 12, 31), 10, "a", "Food"),
		tx(day(2024, 1, 1), 20, "b", "Grocery"),
		tx(day(2024, 1, 2), 30, "c", "Food"),
	))
	require.Len(t, rows, 2)
	assert.Equal(t, YearRow{Year: 2023, Total: 10, Mean: 10, Count: 1, CategoryCount: 1}, rows[0])
	assert.Equal(t, YearRow{Year: 2024, Total: 50, Mean: 25, Count: 2, CategoryCount: 2}, rows[1])
}

func TestSummarize(t *testing.T) {
	o := Summarize(quarterLedger())
	assert.Equal(t, 300.0, o.Total)
	assert.Equal(t, 7, o.Count)
	assert.Equal(t, 64, o.DaySpan)
	assert.Equal(t, 4.69, o.DailyAverage)

	single := Summarize(ledgerOf(tx(day(2024, 1, 1), 12, "a", "Food")))
	assert.Equal(t, 0, single.DaySpan)
	assert.Equal(t, 12.0, single.DailyAverage)

	empty := Summarize(models.Ledger{})
	assert.Zero(t, empty.Count)
	assert.True(t, empty.Start.IsZero())
}

func TestDailyTotals(t *testing.T) {
	totals := DailyTotals(ledgerOf(
		tx(day(2024, 1, 1), 10, "a", "Food"),
		tx(day(2024, 1, 1), 5, "b", "Food"),
		tx(day(2024, 1, 3), 7, "c", "Food"),
	))
	require.Len(t, totals, 2)
	assert.Equal(t, DailyTotal{Date: day(2024, 1, 1), Total: 15, Count: 2}, totals[0])
	assert.Equal(t, time.January, totals[1].Date.Month())
}

func TestEmptyLedgerViews(t *testing.T) {
	var l models.Ledger
	assert.Empty(t, MonthlySummary(l))
	assert.Empty(t, CategorySummary(l))
	assert.Empty(t, WeeklyPattern(l))
	assert.Empty(t, SeasonalSummary(l))
	assert.Empty(t, YearlyComparison(l))
	assert.Empty(t, GrowthRates(l))
	assert.Empty(t, DailyTotals(l))
	assert.Empty(t, TopMerchants(l, 5))
	assert.Empty(t, DetectAnomalies(l))
	assert.Empty(t, BudgetSuggestions(l))
}
