package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/bill-analyzer/cmd/analyze"
	"fjacquet/bill-analyzer/cmd/categorize"
	"fjacquet/bill-analyzer/cmd/cleanup"
	"fjacquet/bill-analyzer/cmd/compare"
	"fjacquet/bill-analyzer/cmd/insights"
	"fjacquet/bill-analyzer/cmd/predict"
	"fjacquet/bill-analyzer/cmd/report"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/cmd/sample"
	"fjacquet/bill-analyzer/cmd/serve"
	"fjacquet/bill-analyzer/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env first, without logging, so LOG_LEVEL and API keys are visible
	config.LoadEnv()

	configureLogLevel()

	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(compare.Cmd)
	root.Cmd.AddCommand(predict.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(sample.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(cleanup.Cmd)
}

// configureLogLevel sets the global logrus level before any logger exists.
// The config file may raise or lower it later.
func configureLogLevel() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
