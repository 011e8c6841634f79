package metrics

import (
	"math"
	"sort"

	"fjacquet/bill-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// group accumulates the amounts of a bucket of transactions.
type group struct {
	total   decimal.Decimal
	amounts []float64
}

func (g *group) add(tx models.Transaction) {
	g.total = g.total.Add(tx.Amount)
	g.amounts = append(g.amounts, tx.AmountFloat())
}

func (g *group) count() int { return len(g.amounts) }

func (g *group) totalFloat() float64 { return money(g.total) }

func (g *group) mean() float64 { return models.Round(mean(g.amounts), 2) }

// money rounds a decimal sum to cents as float64.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// sampleStdDev is the n-1 standard deviation, undefined below two samples.
func sampleStdDev(xs []float64) models.Measure {
	if len(xs) < 2 {
		return models.UndefinedMeasure()
	}
	return models.Of(stat.StdDev(xs, nil))
}

// quantile interpolates linearly between closest ranks of an ascending
// slice, matching the default estimator of numpy and pandas.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

// trendSlope is the least-squares slope of ys over x = 0..n-1.
func trendSlope(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Stats exposes the shared statistics helpers to rule packages.
type Stats struct{}

// Mean of xs, 0 when empty.
func (Stats) Mean(xs []float64) float64 { return mean(xs) }

// StdDev is the sample standard deviation.
func (Stats) StdDev(xs []float64) models.Measure { return sampleStdDev(xs) }

// Quantile with linear interpolation; xs need not be sorted.
func (Stats) Quantile(xs []float64, p float64) float64 { return quantile(sortedCopy(xs), p) }

// Slope of the least-squares line through xs.
func (Stats) Slope(xs []float64) float64 { return trendSlope(xs) }
