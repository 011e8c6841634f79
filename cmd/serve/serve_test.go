package serve

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/loader"
	"fjacquet/bill-analyzer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand_Flags(t *testing.T) {
	assert.Equal(t, "serve", Cmd.Use)
	assert.Equal(t, "a", Cmd.Flags().Lookup("address").Shorthand)
	assert.Equal(t, "*", Cmd.Flags().Lookup("cors-origin").DefValue)
}

func TestNewServer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Sample.Count = 30
	cfg.Insights.CurrencySymbol = "$"
	cfg.Server.RequestsPerMinute = 100
	logger := logging.NewMockLogger()
	c, err := container.NewContainer(cfg, container.WithLogger(logger))
	require.NoError(t, err)

	ds, err := c.GetLoader().Load(context.Background(), loader.Request{Kind: loader.Sample})
	require.NoError(t, err)

	s := newServer(c, ds)
	assert.True(t, logger.HasEntry("INFO", "Serving ledger"))

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/provenance", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"synthetic":true`)
}
