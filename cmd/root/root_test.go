package root_test

import (
	"testing"

	"fjacquet/bill-analyzer/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bill-analyzer", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Analyze personal spending")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
		{"input", "i"},
		{"notion-db", ""},
		{"sample", ""},
		{"fallback-sample", ""},
		{"from", ""},
		{"to", ""},
		{"category", "c"},
		{"min", ""},
		{"max", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestContainer_Uninitialized(t *testing.T) {
	root.AppContainer = nil
	_, err := root.Container()
	assert.Error(t, err)
}

func TestRootCommand_Help(t *testing.T) {
	cmd := &cobra.Command{}
	assert.NoError(t, root.Cmd.RunE(cmd, nil))
}
