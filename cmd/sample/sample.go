// Package sample writes a synthetic ledger
package sample

import (
	"fmt"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/logging"
	gen "fjacquet/bill-analyzer/internal/sample"

	"github.com/spf13/cobra"
)

var (
	count  int
	seed   uint64
	output string
)

// Cmd represents the sample command
var Cmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic ledger as CSV",
	Long: `Generate a deterministic synthetic ledger covering the last 365 days and
write it as CSV to --output, or to stdout. The same seed always produces
the same transactions for a given day.`,
	RunE: sampleFunc,
}

func init() {
	Cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of transactions (default: sample.count)")
	Cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: sample.seed)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
}

func sampleFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	n, s := count, seed
	if n <= 0 {
		n = cfg.Sample.Count
	}
	if s == 0 {
		s = cfg.Sample.Seed
	}

	l := gen.New(gen.Config{Count: n, Seed: s}).Generate()
	reports := c.GetReportGenerator()
	if output == "" {
		return reports.WriteLedger(cmd.OutOrStdout(), l)
	}
	if err := reports.ExportLedger(output, l); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d synthetic transactions to %s\n", l.Len(), output)
	root.Log.Debug("Sample ledger written", logging.F(logging.FieldOutputFile, output), logging.F(logging.FieldSynthetic, true))
	return nil
}
