package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(d time.Time, amount string, desc, cat string) Transaction {
	return Transaction{
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
		Category:    cat,
		Account:     DefaultAccount,
		Type:        DefaultType,
	}
}

func TestNewLedger_StableSortAndCopy(t *testing.T) {
	input := []Transaction{
		tx(date(2024, 3, 2), "10", "second-a", "Food"),
		tx(date(2024, 3, 1), "5", "first", "Food"),
		tx(date(2024, 3, 2), "7", "second-b", "Food"),
	}
	l := NewLedger(input, Provenance{Source: "test"})

	require.Equal(t, 3, l.Len())
	assert.Equal(t, "first", l.At(0).Description)
	assert.Equal(t, "second-a", l.At(1).Description)
	assert.Equal(t, "second-b", l.At(2).Description)

	input[0].Description = "mutated"
	assert.Equal(t, "second-a", l.At(1).Description)

	rows := l.Transactions()
	rows[0].Description = "mutated"
	assert.Equal(t, "first", l.At(0).Description)
}

func TestLedger_FilterReturnsNewView(t *testing.T) {
	min := decimal.NewFromInt(6)
	l := NewLedger([]Transaction{
		tx(date(2024, 1, 5), "5", "coffee", "Food"),
		tx(date(2024, 2, 5), "50", "safeway", "Grocery"),
		tx(date(2024, 3, 5), "20", "uber", "Transportation"),
	}, Provenance{Source: "test"})

	filtered := l.Filter(Filter{
		Start:      date(2024, 1, 1),
		End:        date(2024, 2, 29),
		Categories: []string{"food", "grocery"},
		MinAmount:  &min,
	})

	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "safeway", filtered.At(0).Description)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "test", filtered.Provenance().Source)
}

func TestLedger_DateRangeAndSpan(t *testing.T) {
	var empty Ledger
	_, _, ok := empty.DateRange()
	assert.False(t, ok)
	assert.Equal(t, 0, empty.DaySpan())

	l := NewLedger([]Transaction{
		tx(date(2024, 1, 1), "1", "a", "Food"),
		tx(date(2024, 1, 31), "1", "b", "Food"),
	}, Provenance{})
	assert.Equal(t, 30, l.DaySpan())
}

func TestLedger_Categories(t *testing.T) {
	l := NewLedger([]Transaction{
		tx(date(2024, 1, 1), "1", "a", "Grocery"),
		tx(date(2024, 1, 2), "1", "b", "Food"),
		tx(date(2024, 1, 3), "1", "c", "Grocery"),
	}, Provenance{})
	assert.Equal(t, []string{"Food", "Grocery"}, l.Categories())
}

func TestLedger_ToRawTable(t *testing.T) {
	l := NewLedger([]Transaction{tx(date(2024, 5, 1), "12.50", "Starbucks", "Food")}, Provenance{})
	raw := l.ToRawTable()

	assert.Equal(t, CanonicalColumns, raw.Headers)
	require.Equal(t, 1, raw.Len())
	assert.Equal(t, []any{"2024-05-01", "12.5", "Starbucks", "Food", DefaultAccount, DefaultType}, raw.Rows[0])
	assert.Nil(t, raw.Cell(0, 99))
}

func TestLedger_All(t *testing.T) {
	l := NewLedger([]Transaction{
		tx(date(2024, 1, 1), "1", "a", "Food"),
		tx(date(2024, 1, 2), "2", "b", "Food"),
	}, Provenance{})

	var seen []string
	for _, row := range l.All() {
		seen = append(seen, row.Description)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}
