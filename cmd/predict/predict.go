// Package predict extrapolates monthly spending of a category
package predict

import (
	"fmt"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/views"

	"github.com/spf13/cobra"
)

var horizon int

// Cmd represents the predict command
var Cmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the next monthly totals of a category",
	Long: `Fit a linear trend through the monthly totals of the --category and
extend it --horizon months past the last month with data.`,
	RunE: predictFunc,
}

func init() {
	Cmd.Flags().IntVar(&horizon, "horizon", metrics.DefaultHorizon, "Number of months to predict")
}

func predictFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	categories := views.SplitList(root.SharedFlags.Category)
	if len(categories) != 1 {
		return fmt.Errorf("predict needs exactly one --category")
	}

	flags := root.SharedFlags
	flags.Category = ""
	_, l, err := common.LoadLedger(common.Context(cmd.Context()), c, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	p, err := metrics.PredictCategory(l, metrics.PredictionQuery{Category: categories[0], Horizon: horizon}).Get()
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), p)
}
