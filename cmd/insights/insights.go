// Package insights prints plain-language observations about the ledger
package insights

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/currencyutils"
	bills "fjacquet/bill-analyzer/internal/insights"

	"github.com/spf13/cobra"
)

var (
	narrate bool
	asJSON  bool
)

// Cmd represents the insights command
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Print observations and budget suggestions",
	Long: `Print the observations of every insight section followed by budget
suggestions. --narrate adds a short summary, written by Gemini when AI is
enabled in the configuration.`,
	RunE: insightsFunc,
}

func init() {
	Cmd.Flags().BoolVar(&narrate, "narrate", false, "Add a prose summary")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd.Context())
	_, l, err := common.LoadLedger(ctx, c, root.SharedFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	report := c.GetInsightGenerator().Generate(l)
	var narrative string
	if narrate {
		if narrative, err = c.GetNarrator().Narrate(ctx, report, l.Provenance()); err != nil {
			return fmt.Errorf("failed to write narrative: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return common.PrintJSON(out, struct {
			bills.Report
			Narrative string `json:"narrative,omitempty"`
		}{report, narrative})
	}
	printReport(out, report, c.GetFormatter())
	if narrative != "" {
		fmt.Fprintf(out, "\nSummary\n%s\n", narrative)
	}
	return nil
}

func printReport(w io.Writer, r bills.Report, money *currencyutils.Formatter) {
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, heading(s.Name))
		if len(s.Observations) == 0 {
			fmt.Fprintln(w, "  (nothing to report)")
		}
		for _, o := range s.Observations {
			fmt.Fprintf(w, "  - %s\n", o)
		}
	}
	if len(r.Budget) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSuggested monthly budget\n")
	for _, b := range r.Budget {
		fmt.Fprintf(w, "  %-16s %s\n", b.Category, money.Money(b.Suggested))
	}
}

// heading turns "spending_patterns" into "Spending patterns".
func heading(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
