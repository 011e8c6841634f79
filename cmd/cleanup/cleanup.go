// Package cleanup removes expired report exports
package cleanup

import (
	"fmt"
	"time"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/retention"

	"github.com/spf13/cobra"
)

var (
	infoOnly bool
	dir      string
	maxAge   time.Duration
)

// Cmd represents the cleanup command
var Cmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired report exports",
	Long: `Delete files in the report directory that are older than the retention
age. With --info, list the files instead of deleting them.`,
	RunE: cleanupFunc,
}

func init() {
	Cmd.Flags().BoolVar(&infoOnly, "info", false, "List files without deleting")
	Cmd.Flags().StringVar(&dir, "dir", "", "Directory to sweep (default: retention.directory)")
	Cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Maximum file age (default: retention.max_age_hours)")
}

func cleanupFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	s := sweeper(c)

	out := cmd.OutOrStdout()
	if infoOnly {
		entries, err := s.Info()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "No files in %s\n", s.Dir)
			return nil
		}
		now := time.Now()
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%d\t%s\n", e.Name, e.Size, e.Age(now).Round(time.Second))
		}
		return nil
	}

	res, err := s.Sweep()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d files (%d bytes)\n", res.Removed, res.Bytes)
	return nil
}

// sweeper reuses the configured sweeper unless a flag overrides it.
func sweeper(c *container.Container) *retention.Sweeper {
	cfg := c.GetConfig()
	if s := c.GetSweeper(); s != nil && dir == "" && maxAge == 0 {
		return s
	}
	d := dir
	if d == "" {
		d = cfg.Retention.Directory
	}
	if d == "" {
		d = cfg.Report.Directory
	}
	age := maxAge
	if age == 0 {
		age = cfg.RetentionMaxAge()
	}
	return retention.NewSweeper(d, age, cfg.RetentionInterval(), c.GetLogger())
}
