package metrics

import (
	"strings"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"
)

// DefaultHorizon is the number of months predicted when none is given.
const DefaultHorizon = 3

// PredictionQuery asks for the next Horizon monthly totals of a category.
type PredictionQuery struct {
	Category string
	Horizon  int
}

// MonthTotal is a month key with its total.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// Prediction is a linear-trend extrapolation of monthly totals.
type Prediction struct {
	Category          string       `json:"category"`
	HistoricalAverage float64      `json:"historical_average"`
	TrendSlope        float64      `json:"trend_slope"`
	History           []MonthTotal `json:"history"`
	Predictions       []MonthTotal `json:"predictions"`
}

// PredictCategory fits a least-squares line through the populated monthly
// totals of a category and extends it Horizon months past the last one.
// Predicted totals are floored at zero. Fewer than two months of history is a
// KindInsufficientData failure.
func PredictCategory(l models.Ledger, q PredictionQuery) Result[Prediction] {
	if q.Horizon < 1 {
		return Fail[Prediction](KindInvalidRequest, "horizon must be at least one month, got %d", q.Horizon)
	}
	category := strings.TrimSpace(q.Category)
	if category == "" {
		return Fail[Prediction](KindInvalidRequest, "a category is required")
	}

	history := MonthlySummary(l.Filter(models.Filter{Categories: []string{category}}))
	if len(history) < 2 {
		return Fail[Prediction](KindInsufficientData,
			"%s needs at least 2 months of history, found %d", category, len(history))
	}

	totals := make([]float64, len(history))
	p := Prediction{Category: category}
	for i, m := range history {
		totals[i] = m.Total
		p.History = append(p.History, MonthTotal{Month: m.Month, Total: m.Total})
	}

	avg := mean(totals)
	slope := trendSlope(totals)
	center := float64(len(totals)-1) / 2
	p.HistoricalAverage = models.Round(avg, 2)
	p.TrendSlope = models.Round(slope, 2)

	last, err := dateutils.ParseMonthKey(history[len(history)-1].Month)
	if err != nil {
		return Fail[Prediction](KindInvalidRequest, "bad month key %q", history[len(history)-1].Month)
	}
	for k := 1; k <= q.Horizon; k++ {
		x := float64(len(totals)-1+k) - center
		p.Predictions = append(p.Predictions, MonthTotal{
			Month: dateutils.MonthKey(dateutils.AddMonths(last, k)),
			Total: models.Round(max(avg+slope*x, 0), 2),
		})
	}
	return OK(p)
}
