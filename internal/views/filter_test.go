package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterParams(t *testing.T) {
	f, err := FilterParams{}.Filter()
	require.NoError(t, err)
	assert.True(t, f.IsZero())

	f, err = FilterParams{From: "2024-01-01", To: "2024-01-31", Categories: "Food, ,Grocery", Min: "1.5", Max: "100"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.Start)
	assert.Equal(t, []string{"Food", "Grocery"}, f.Categories)
	assert.Equal(t, "1.5", f.MinAmount.String())
	assert.Equal(t, "100", f.MaxAmount.String())

	filtered := ledger().Filter(f)
	assert.Equal(t, 2, filtered.Len())
}

func TestFilterParams_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  FilterParams
		wantErr string
	}{
		{"bad from", FilterParams{From: "yesterday"}, "invalid from date"},
		{"bad to", FilterParams{To: "31/31/2024"}, "invalid to date"},
		{"inverted", FilterParams{From: "2024-02-01", To: "2024-01-01"}, "before from date"},
		{"bad min", FilterParams{Min: "ten"}, "invalid min amount"},
		{"inverted amounts", FilterParams{Min: "10", Max: "5"}, "below min amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.Filter()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
