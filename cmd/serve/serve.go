// Package serve runs the HTTP API over one loaded ledger
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"fjacquet/bill-analyzer/cmd/common"
	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/loader"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/server"

	"github.com/spf13/cobra"
)

var (
	address      string
	allowOrigins string
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger views as a JSON API",
	Long: `Load the ledger once and serve read-only JSON views, insights and report
downloads until interrupted. When retention is enabled, expired exports are
swept in the background.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default: server.address)")
	Cmd.Flags().StringVar(&allowOrigins, "cors-origin", "*", "Allowed CORS origins")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(common.Context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The API serves the whole ledger; filters are query parameters.
	flags := root.SharedFlags
	flags.From, flags.To, flags.Category, flags.Min, flags.Max = "", "", "", "", ""
	ds, _, err := common.LoadLedger(ctx, c, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if sweeper := c.GetSweeper(); sweeper != nil {
		go sweeper.Run(ctx)
	}

	addr := address
	if addr == "" {
		addr = c.GetConfig().Server.Address
	}
	return newServer(c, ds).Run(ctx, addr)
}

func newServer(c *container.Container, ds loader.Dataset) *server.Server {
	c.GetLogger().Info("Serving ledger",
		logging.F(logging.FieldCount, ds.Ledger.Len()),
		logging.F(logging.FieldSynthetic, ds.Provenance().Synthetic))
	return server.New(server.Config{
		Dataset:           ds,
		Categorizer:       c.GetCategorizer(),
		Insights:          c.GetInsightGenerator(),
		Reports:           c.GetReportGenerator(),
		Narrator:          c.GetNarrator(),
		Logger:            c.GetLogger(),
		AllowOrigins:      allowOrigins,
		RequestsPerMinute: c.GetConfig().Server.RequestsPerMinute,
	})
}

