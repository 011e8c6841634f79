package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	assert.Equal(t, "Other", rules.Fallback)
	assert.NotEmpty(t, rules.Version)
	assert.Equal(t, []string{
		"Food", "Grocery", "Utilities", "Transportation",
		"Entertainment", "Healthcare", "Bank", "Shopping",
	}, rules.Names())
}

func TestLoadRules_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `version: "custom"
categories:
  - name: Pets
    patterns: [vet, "pet food"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	rules, err := NewRuleStore(path, logging.NewMockLogger()).LoadRules()
	require.NoError(t, err)
	assert.Equal(t, "custom", rules.Version)
	require.Len(t, rules.Categories, 1)
	assert.Equal(t, []string{"vet", "pet food"}, rules.Categories[0].Patterns)
}

func TestLoadRules_BareList(t *testing.T) {
	rules, err := ParseRules([]byte("- name: Pets\n  patterns: [vet]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets"}, rules.Names())
}

func TestLoadRules_MissingFileFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	rules, err := NewRuleStore(filepath.Join(t.TempDir(), "nope.yaml"), logger).LoadRules()
	require.NoError(t, err)
	assert.Len(t, rules.Categories, 8)
	assert.Len(t, logger.EntriesByLevel("WARN"), 1)
}

func TestLoadRules_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [[["), 0600))

	_, err := NewRuleStore(path, nil).LoadRules()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   models.RuleSet
		wantErr string
	}{
		{name: "empty", rules: models.RuleSet{}, wantErr: "no categories"},
		{
			name:    "missing name",
			rules:   models.RuleSet{Categories: []models.CategoryRule{{Patterns: []string{"x"}}}},
			wantErr: "has no name",
		},
		{
			name: "duplicate name",
			rules: models.RuleSet{Categories: []models.CategoryRule{
				{Name: "Food", Patterns: []string{"x"}},
				{Name: "food", Patterns: []string{"y"}},
			}},
			wantErr: "duplicate category",
		},
		{
			name:    "no patterns",
			rules:   models.RuleSet{Categories: []models.CategoryRule{{Name: "Food"}}},
			wantErr: "has no patterns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRules_RoundTrip(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "categories.yaml")
	require.NoError(t, SaveRules(path, rules))

	loaded, err := NewRuleStore(path, nil).LoadRules()
	require.NoError(t, err)
	assert.Equal(t, rules, loaded)
}
