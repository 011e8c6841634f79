package sample

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestContainer(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Sample.Count = 25
	cfg.Sample.Seed = 42
	cfg.Insights.CurrencySymbol = "$"
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	root.AppContainer = c
	t.Cleanup(func() {
		root.AppContainer = nil
		count, seed, output = 0, 0, ""
	})
}

func run(t *testing.T) (string, string) {
	t.Helper()
	var out, notes bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&notes)
	require.NoError(t, Cmd.RunE(Cmd, nil))
	return out.String(), notes.String()
}

func TestSample_Stdout(t *testing.T) {
	useTestContainer(t)

	out, _ := run(t)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 26, "header plus configured count")
	assert.Equal(t, "date,amount,description,category,account,type", lines[0])
}

func TestSample_FlagsAndFile(t *testing.T) {
	useTestContainer(t)
	count = 5
	seed = 7
	output = filepath.Join(t.TempDir(), "sample.csv")

	out, notes := run(t)
	assert.Empty(t, out)
	assert.Contains(t, notes, "Wrote 5 synthetic transactions")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 6)
}
