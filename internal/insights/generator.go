// Package insights turns a ledger and its metric views into short
// natural-language observations grouped by theme.
package insights

import (
	"fmt"

	"fjacquet/bill-analyzer/internal/currencyutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"
)

// Section names in report order.
const (
	SectionSpending        = "spending_patterns"
	SectionFrequency       = "frequency"
	SectionCategories      = "category_insights"
	SectionTemporal        = "temporal_insights"
	SectionAnomalies       = "anomaly_insights"
	SectionRecurring       = "recurring_charges"
	SectionSavings         = "savings_opportunities"
	SectionHealth          = "financial_health"
	SectionRecommendations = "recommendations"
)

// Views are the metric views shared by every rule, computed once per report.
type Views struct {
	Overview   metrics.Overview
	Monthly    []metrics.MonthlyRow
	Categories []metrics.CategoryRow
	Weekly     []metrics.WeekdayRow
	Daily      []metrics.DailyTotal
	Anomalies  []metrics.Anomaly
	Budget     []metrics.BudgetLine
}

// ComputeViews derives the views the rules read.
func ComputeViews(l models.Ledger) Views {
	return Views{
		Overview:   metrics.Summarize(l),
		Monthly:    metrics.MonthlySummary(l),
		Categories: metrics.CategorySummary(l),
		Weekly:     metrics.WeeklyPattern(l),
		Daily:      metrics.DailyTotals(l),
		Anomalies:  metrics.DetectAnomalies(l),
		Budget:     metrics.BudgetSuggestions(l),
	}
}

// Input is what a rule sees.
type Input struct {
	Ledger models.Ledger
	Views  Views
	Money  *currencyutils.Formatter
}

// Rule produces zero or more observations. Rules must not mutate the input.
type Rule struct {
	Section string
	Name    string
	Apply   func(in Input) []string
}

// Section groups the observations of one theme.
type Section struct {
	Name         string   `json:"name"`
	Observations []string `json:"observations"`
}

// Report is the full set of observations plus budget suggestions.
type Report struct {
	Sections []Section           `json:"sections"`
	Budget   []metrics.BudgetLine `json:"budget"`
}

// Observations returns the observations of a section, nil when absent.
func (r Report) Observations(section string) []string {
	for _, s := range r.Sections {
		if s.Name == section {
			return s.Observations
		}
	}
	return nil
}

// Count is the total number of observations.
func (r Report) Count() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Observations)
	}
	return n
}

// Generator runs a fixed list of rules.
type Generator struct {
	rules  []Rule
	money  *currencyutils.Formatter
	logger logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithFormatter sets the money formatter.
func WithFormatter(f *currencyutils.Formatter) Option {
	return func(g *Generator) { g.money = f }
}

// WithRules replaces the default rule list.
func WithRules(rules ...Rule) Option {
	return func(g *Generator) { g.rules = rules }
}

// NewGenerator builds a generator with the default rules.
func NewGenerator(logger logging.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	g := &Generator{rules: DefaultRules(), money: currencyutils.DefaultFormatter(), logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate applies every rule to the ledger. An empty ledger yields empty
// sections. A rule that panics contributes nothing.
func (g *Generator) Generate(l models.Ledger) Report {
	in := Input{Ledger: l, Views: ComputeViews(l), Money: g.money}

	var report Report
	index := make(map[string]int)
	for _, rule := range g.rules {
		i, ok := index[rule.Section]
		if !ok {
			i = len(report.Sections)
			index[rule.Section] = i
			report.Sections = append(report.Sections, Section{Name: rule.Section})
		}
		if l.IsEmpty() {
			continue
		}
		report.Sections[i].Observations = append(report.Sections[i].Observations, g.apply(rule, in)...)
	}
	report.Budget = in.Views.Budget
	return report
}

func (g *Generator) apply(rule Rule, in Input) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("Insight rule failed",
				logging.F(logging.FieldRule, rule.Name),
				logging.F(logging.FieldError, fmt.Sprint(r)))
			out = nil
		}
	}()
	return rule.Apply(in)
}
