// Package report exports summary reports
package report

import (
	"fmt"
	"strings"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	reports "fjacquet/bill-analyzer/internal/report"

	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	stdout    bool
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report <kind>",
	Short: "Export a monthly, category, yearly or custom report",
	Long: fmt.Sprintf(`Export a report as CSV or PDF into the report directory as
<kind>_report.<format>.

Kinds: %s`, strings.Join(kindNames(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", string(reports.CSV), "Output format (csv, pdf)")
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the report (default: report.directory)")
	Cmd.Flags().BoolVar(&stdout, "stdout", false, "Write a CSV report to stdout instead of a file")
}

func kindNames() []string {
	var names []string
	for _, k := range reports.Kinds() {
		names = append(names, string(k))
	}
	return names
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	kind, err := reports.ParseKind(args[0])
	if err != nil {
		return err
	}
	f, err := reports.ParseFormat(format)
	if err != nil {
		return err
	}
	_, l, err := common.LoadLedger(common.Context(cmd.Context()), c, root.SharedFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	gen := c.GetReportGenerator()
	if stdout {
		if f != reports.CSV {
			return fmt.Errorf("only csv reports can be written to stdout")
		}
		return gen.Write(cmd.OutOrStdout(), kind, l)
	}

	dir := outputDir
	if dir == "" {
		dir = c.GetConfig().Report.Directory
	}
	path, err := gen.Export(dir, kind, f, l)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
