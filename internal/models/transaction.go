// Package models defines the ledger data model shared by every bill-analyzer
// component.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized spending record. Amount is always a
// non-negative magnitude and Date is truncated to UTC midnight.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	Type        string          `json:"type"`
}

// AmountFloat returns the amount as float64 for statistics.
func (t Transaction) AmountFloat() float64 {
	return t.Amount.InexactFloat64()
}

// Month returns the calendar month key, e.g. "2024-03".
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// Day truncates any instant to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
