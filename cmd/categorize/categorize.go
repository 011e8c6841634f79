// Package categorize handles transaction categorization commands
package categorize

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/store"

	"github.com/spf13/cobra"
)

var (
	explain   bool
	dumpRules bool
	output    string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [description...]",
	Short: "Categorize transaction descriptions with the keyword rules",
	Long: `Categorize transaction descriptions using the ordered keyword rules.
Descriptions are taken from the arguments, or one per line from stdin when
no argument is given. --dump-rules prints the built-in rule set, or writes it
to --output, as a starting point for a custom rule file.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Show the rule pattern that matched")
	Cmd.Flags().BoolVar(&dumpRules, "dump-rules", false, "Print the built-in category rules as YAML")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the dumped rules to this file")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dumpRules {
		return dump(out)
	}

	descriptions := args
	if len(descriptions) == 0 {
		if descriptions, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	cat := c.GetCategorizer()
	for _, d := range descriptions {
		m := cat.Explain(d)
		switch {
		case !explain:
			fmt.Fprintf(out, "%s\t%s\n", d, m.Category)
		case m.Fallback:
			fmt.Fprintf(out, "%s\t%s\t(no rule matched)\n", d, m.Category)
		default:
			fmt.Fprintf(out, "%s\t%s\t(matched %q)\n", d, m.Category, m.Pattern)
		}
	}
	root.Log.Debug("Categorized descriptions", logging.F(logging.FieldCount, len(descriptions)))
	return nil
}

func dump(out io.Writer) error {
	if output == "" {
		_, err := out.Write(store.DefaultRulesYAML())
		return err
	}
	rules, err := store.DefaultRules()
	if err != nil {
		return err
	}
	if err := store.SaveRules(output, rules); err != nil {
		return err
	}
	root.Log.Info("Category rules written", logging.F(logging.FieldOutputFile, output))
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
