package models

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows a ledger. Zero-valued bounds are open; every bound is
// inclusive. Category names match case-insensitively.
type Filter struct {
	Start      time.Time
	End        time.Time
	Categories []string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// IsZero reports whether the filter accepts everything.
func (f Filter) IsZero() bool {
	return f.Start.IsZero() && f.End.IsZero() && len(f.Categories) == 0 &&
		f.MinAmount == nil && f.MaxAmount == nil
}

// Match reports whether tx passes every bound of the filter.
func (f Filter) Match(tx Transaction) bool {
	if !f.Start.IsZero() && tx.Date.Before(Day(f.Start)) {
		return false
	}
	if !f.End.IsZero() && tx.Date.After(Day(f.End)) {
		return false
	}
	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), tx.Category)
	}) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}
