package insights

import (
	"testing"

	"fjacquet/bill-analyzer/internal/currencyutils"
	"fjacquet/bill-analyzer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGenerate_EmptyLedgerKeepsSections(t *testing.T) {
	report := NewGenerator(nil).Generate(ledgerOf())

	names := make([]string, 0, len(report.Sections))
	for _, s := range report.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		SectionSpending, SectionFrequency, SectionCategories, SectionTemporal, SectionAnomalies,
		SectionRecurring, SectionSavings, SectionHealth, SectionRecommendations,
	}, names)
	assert.Zero(t, report.Count())
}

func TestGenerate_QuarterLedger(t *testing.T) {
	report := NewGenerator(nil).Generate(quarterLedger())

	assert.Contains(t, report.Observations(SectionSpending), "You spent $300.00 across 7 transactions.")
	assert.Contains(t, report.Observations(SectionSpending), "Monthly spending has gone down every month.")
	assert.Contains(t, report.Observations(SectionCategories), "'Grocery' is your largest category at 53.3% of spending.")
	assert.Contains(t, report.Observations(SectionCategories), "Most of your money goes to Grocery, Food, Transportation.")
	assert.Contains(t, report.Observations(SectionHealth), "Your spending is concentrated in a few categories.")
	assert.Equal(t, []string{
		"With an average of $100.00 spent per month, per-category budgets would help you stay on track.",
		"An emergency fund of $300.00 would cover three months of expenses.",
		"Setting aside $2.50 a month would save 10% of your spending over a year.",
	}, report.Observations(SectionRecommendations))
	assert.Len(t, report.Budget, 3)
}

func TestGenerate_PanickingRuleIsSkipped(t *testing.T) {
	logger := logging.NewMockLogger()
	g := NewGenerator(logger, WithRules(
		Rule{Section: "broken", Name: "boom", Apply: func(Input) []string { panic("boom") }},
		Rule{Section: "ok", Name: "fine", Apply: func(Input) []string { return []string{"fine"} }},
	))

	report := g.Generate(quarterLedger())
	require.Len(t, report.Sections, 2)
	assert.Empty(t, report.Observations("broken"))
	assert.Equal(t, []string{"fine"}, report.Observations("ok"))
	assert.True(t, logger.HasEntry("WARN", "Insight rule failed"))
}

func TestGenerate_UsesFormatter(t *testing.T) {
	g := NewGenerator(nil, WithFormatter(currencyutils.NewFormatter("€", language.English)))
	report := g.Generate(quarterLedger())
	assert.Contains(t, report.Observations(SectionSpending), "You spent €300.00 across 7 transactions.")
}
