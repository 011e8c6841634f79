// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the source and filter flags shared by the analysis commands
type CommonFlags struct {
	Input          string
	NotionDB       string
	Sample         bool
	FallbackSample bool
	From           string
	To             string
	Category       string
	Min            string
	Max            string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built before any subcommand runs
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bill-analyzer",
		Short: "Analyze personal spending from CSV, spreadsheets, bank statements or Notion.",
		Long: `bill-analyzer loads a ledger of expenses, categorizes it and derives
monthly, category and temporal summaries, comparisons, predictions and
plain-language insights. Without a source it works on synthetic sample data.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to release resources")
				}
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile overrides the config file search
	ConfigFile string
	logLevel   string
	logFormat  string
)

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.bill-analyzer, .bill-analyzer or .)")
	pf.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format override (text, json)")

	pf.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (csv, json, xlsx, html, camt xml, md journal)")
	pf.StringVar(&SharedFlags.NotionDB, "notion-db", "", "Notion database id to load")
	pf.BoolVar(&SharedFlags.Sample, "sample", false, "Use synthetic sample data")
	pf.BoolVar(&SharedFlags.FallbackSample, "fallback-sample", false, "Use sample data when the source fails or is empty")

	pf.StringVar(&SharedFlags.From, "from", "", "Only transactions on or after this date")
	pf.StringVar(&SharedFlags.To, "to", "", "Only transactions on or before this date")
	pf.StringVarP(&SharedFlags.Category, "category", "c", "", "Comma separated categories")
	pf.StringVar(&SharedFlags.Min, "min", "", "Minimum amount")
	pf.StringVar(&SharedFlags.Max, "max", "", "Maximum amount")
}

func setup(cmd *cobra.Command, args []string) error {
	if AppContainer != nil {
		return nil
	}
	cfg, err := config.InitializeConfigFile(ConfigFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// Container returns the application container, failing when setup did not run.
func Container() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return AppContainer, nil
}
