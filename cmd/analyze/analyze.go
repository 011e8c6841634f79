// Package analyze prints metric views of a ledger
package analyze

import (
	"fmt"
	"strings"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/views"

	"github.com/spf13/cobra"
)

var top int

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze <view>",
	Short: "Print a metric view of the ledger as JSON",
	Long: fmt.Sprintf(`Print a metric view of the loaded ledger as JSON.

Views: %s`, strings.Join(views.Names(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: views.Names(),
	RunE:      analyzeFunc,
}

func init() {
	Cmd.Flags().IntVarP(&top, "top", "n", views.DefaultTop, "Number of rows in the merchants view")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	_, l, err := common.LoadLedger(common.Context(cmd.Context()), c, root.SharedFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	v, err := views.Render(args[0], l, top)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmd.OutOrStdout(), v)
}
