// Package views maps view names used by the CLI and the HTTP API to the
// metric queries that produce them.
package views

import (
	"fmt"
	"slices"
	"strings"

	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/normalizer"
)

// DefaultTop is the row limit of the merchants view.
const DefaultTop = 10

// View names.
const (
	Overview  = "overview"
	Monthly   = "monthly"
	Category  = "category"
	Weekly    = "weekly"
	Seasonal  = "seasonal"
	Yearly    = "yearly"
	Growth    = "growth"
	Quality   = "quality"
	Merchants = "merchants"
	Anomalies = "anomalies"
	Savings   = "savings"
	Budget    = "budget"
)

var names = []string{Overview, Monthly, Category, Weekly, Seasonal, Yearly, Growth, Quality, Merchants, Anomalies, Savings, Budget}

// Names lists the supported views.
func Names() []string {
	return slices.Clone(names)
}

// Render computes the named view. top limits the merchants view; values
// below one select DefaultTop.
func Render(name string, l models.Ledger, top int) (any, error) {
	if top < 1 {
		top = DefaultTop
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Overview:
		return metrics.Summarize(l), nil
	case Monthly:
		return nonNil(metrics.MonthlySummary(l)), nil
	case Category:
		return nonNil(metrics.CategorySummary(l)), nil
	case Weekly:
		return nonNil(metrics.WeeklyPattern(l)), nil
	case Seasonal:
		return nonNil(metrics.SeasonalSummary(l)), nil
	case Yearly:
		return nonNil(metrics.YearlyComparison(l)), nil
	case Growth:
		return nonNil(metrics.GrowthRates(l)), nil
	case Quality:
		return normalizer.Inspect(l), nil
	case Merchants:
		return nonNil(metrics.TopMerchants(l, top)), nil
	case Anomalies:
		return nonNil(metrics.DetectAnomalies(l)), nil
	case Savings:
		return metrics.SavingsPotential(l), nil
	case Budget:
		return nonNil(metrics.BudgetSuggestions(l)), nil
	default:
		return nil, fmt.Errorf("unknown view %q (valid: %s)", name, strings.Join(names, ", "))
	}
}

// nonNil keeps empty views encoded as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
