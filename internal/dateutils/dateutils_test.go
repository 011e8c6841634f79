package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"iso", "2024-03-05"},
		{"iso padded", "  2024-03-05  "},
		{"rfc3339", "2024-03-05T18:30:00Z"},
		{"rfc3339 offset keeps calendar day", "2024-03-05T23:30:00-05:00"},
		{"datetime", "2024-03-05 08:15:00"},
		{"slash ymd", "2024/03/05"},
		{"us", "03/05/2024"},
		{"us short", "3/5/2024"},
		{"european dots", "05.03.2024"},
		{"textual", "Mar 5, 2024"},
		{"long textual", "March 5, 2024"},
		{"day month year", "5 March 2024"},
		{"compact", "20240305"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2024-13-45"} {
		_, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestSeason(t *testing.T) {
	assert.Equal(t, Winter, Season(time.December))
	assert.Equal(t, Winter, Season(time.January))
	assert.Equal(t, Winter, Season(time.February))
	assert.Equal(t, Spring, Season(time.March))
	assert.Equal(t, Summer, Season(time.July))
	assert.Equal(t, Fall, Season(time.November))
}

func TestMonthHelpers(t *testing.T) {
	d := time.Date(2024, time.November, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-11", MonthKey(d))
	assert.Equal(t, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(d))
	assert.Equal(t, "2025-02", MonthKey(AddMonths(d, 3)))

	parsed, err := ParseMonthKey("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.February, parsed.Month())
}

func TestDaysBetweenAndWeekend(t *testing.T) {
	a := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 31, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(a, b))

	assert.True(t, IsWeekend(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsWeekend(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Monday, WeekOrder[0])
	assert.Len(t, WeekOrder, 7)
}
