// Package compare compares categories or two periods
package compare

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/views"

	"github.com/spf13/cobra"
)

var (
	firstFrom, firstTo   string
	secondFrom, secondTo string
)

// Cmd represents the compare command
var Cmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare categories, or one category across two periods",
	Long: `Without period flags, prints statistics, monthly trend and weekday pattern
for the categories given with --category over --from/--to.

With --first-from, --first-to, --second-from and --second-to, compares the
spending of the single --category (or all spending) across the two periods.`,
	RunE: compareFunc,
}

func init() {
	Cmd.Flags().StringVar(&firstFrom, "first-from", "", "Start of the first period")
	Cmd.Flags().StringVar(&firstTo, "first-to", "", "End of the first period")
	Cmd.Flags().StringVar(&secondFrom, "second-from", "", "Start of the second period")
	Cmd.Flags().StringVar(&secondTo, "second-to", "", "End of the second period")
}

func compareFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}

	// Only the source flags apply here; the selection is the query itself.
	flags := root.SharedFlags
	categories := views.SplitList(flags.Category)
	from, to := flags.From, flags.To
	flags.From, flags.To, flags.Category, flags.Min, flags.Max = "", "", "", "", ""

	ds, _, err := common.LoadLedger(common.Context(cmd.Context()), c, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var v any
	if firstFrom == "" && firstTo == "" && secondFrom == "" && secondTo == "" {
		v, err = categoryMetrics(ds.Ledger, categories, from, to)
	} else {
		v, err = comparePeriods(ds.Ledger, categories)
	}
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), v)
}

func categoryMetrics(l models.Ledger, categories []string, from, to string) (any, error) {
	q := metrics.CategoryQuery{Categories: categories}
	var err error
	if q.Start, err = parseOptional(from); err != nil {
		return nil, err
	}
	if q.End, err = parseOptional(to); err != nil {
		return nil, err
	}
	return metrics.CategoryMetrics(l, q).Get()
}

func comparePeriods(l models.Ledger, categories []string) (any, error) {
	if len(categories) > 1 {
		return nil, fmt.Errorf("period comparison takes one category, got %d", len(categories))
	}
	q := metrics.PeriodQuery{}
	if len(categories) == 1 {
		q.Category = categories[0]
	}
	var err error
	for _, f := range []struct {
		value string
		dst   *time.Time
	}{
		{firstFrom, &q.First.Start},
		{firstTo, &q.First.End},
		{secondFrom, &q.Second.Start},
		{secondTo, &q.Second.End},
	} {
		if *f.dst, err = parseOptional(f.value); err != nil {
			return nil, err
		}
	}
	return metrics.ComparePeriods(l, q).Get()
}

func parseOptional(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return dateutils.ParseDate(s)
}
