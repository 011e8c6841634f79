package views

import (
	"fmt"
	"strings"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// FilterParams are the textual filter inputs shared by flags and query
// parameters. Empty values leave a bound open.
type FilterParams struct {
	From       string
	To         string
	Categories string // comma separated
	Min        string
	Max        string
}

// Filter parses the params.
func (p FilterParams) Filter() (models.Filter, error) {
	var f models.Filter
	var err error
	if s := strings.TrimSpace(p.From); s != "" {
		if f.Start, err = dateutils.ParseDate(s); err != nil {
			return models.Filter{}, fmt.Errorf("invalid from date %q: %w", s, err)
		}
	}
	if s := strings.TrimSpace(p.To); s != "" {
		if f.End, err = dateutils.ParseDate(s); err != nil {
			return models.Filter{}, fmt.Errorf("invalid to date %q: %w", s, err)
		}
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return models.Filter{}, fmt.Errorf("to date %s is before from date %s", dateutils.ToISODate(f.End), dateutils.ToISODate(f.Start))
	}
	f.Categories = SplitList(p.Categories)
	if f.MinAmount, err = optionalAmount("min", p.Min); err != nil {
		return models.Filter{}, err
	}
	if f.MaxAmount, err = optionalAmount("max", p.Max); err != nil {
		return models.Filter{}, err
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		return models.Filter{}, fmt.Errorf("max amount %s is below min amount %s", f.MaxAmount, f.MinAmount)
	}
	return f, nil
}

func optionalAmount(name, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s amount %q: %w", name, s, err)
	}
	return &d, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
