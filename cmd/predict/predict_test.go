package predict

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestContainer(t *testing.T, csv string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Sample.Count = 20
	cfg.Insights.CurrencySymbol = "$"
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0600))
	root.AppContainer = c
	root.SharedFlags = root.CommonFlags{Input: path}
	t.Cleanup(func() {
		root.AppContainer = nil
		root.SharedFlags = root.CommonFlags{}
		horizon = metrics.DefaultHorizon
	})
}

func TestPredict(t *testing.T) {
	useTestContainer(t, `date,description,amount,category
2024-01-05,Safeway,100,Grocery
2024-02-05,Safeway,110,Grocery
2024-03-05,Safeway,120,Grocery
`)
	root.SharedFlags.Category = "Grocery"
	horizon = 2

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, Cmd.RunE(Cmd, nil))

	var p metrics.Prediction
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, 110.0, p.HistoricalAverage)
	assert.Equal(t, 10.0, p.TrendSlope)
	assert.Equal(t, []metrics.MonthTotal{{Month: "2024-04", Total: 130}, {Month: "2024-05", Total: 140}}, p.Predictions)
}

func TestPredict_Errors(t *testing.T) {
	useTestContainer(t, "date,description,amount,category\n2024-01-05,Safeway,100,Grocery\n")
	Cmd.SetErr(&bytes.Buffer{})

	assert.ErrorContains(t, Cmd.RunE(Cmd, nil), "exactly one --category")

	root.SharedFlags.Category = "Grocery"
	err := Cmd.RunE(Cmd, nil)
	assert.True(t, metrics.IsKind(err, metrics.KindInsufficientData))
}
