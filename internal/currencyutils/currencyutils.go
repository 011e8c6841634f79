// Package currencyutils parses loosely formatted amounts and renders money
// for human-readable output.
package currencyutils

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	currencyCodes   = regexp.MustCompile(`(?i)\b(usd|eur|chf|gbp|jpy|cny|rmb|cad|aud)\b`)
	currencySymbols = regexp.MustCompile(`[€$£¥₣₤₹₺₽₩฿₫₴₸₪\s]`)
)

// ParseAmount parses amounts such as "1,234.56", "1.234,56", "$ 12",
// "CHF 1'234.50" or "(40.00)". Parentheses mark a negative amount. An empty
// value is an error.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	}

	standardized := StandardizeAmount(raw)
	if strings.HasSuffix(standardized, "-") {
		negative = !negative
		standardized = strings.TrimSuffix(standardized, "-")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", s, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and rewrites the separators so
// that decimal.NewFromString can parse the result.
func StandardizeAmount(s string) string {
	s = currencyCodes.ReplaceAllString(s, "")
	s = currencySymbols.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "'", "")

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// Formatter renders money with locale-aware digit grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter for the currency symbol (e.g. "$") and
// language tag used for grouping.
func NewFormatter(symbol string, tag language.Tag) *Formatter {
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// DefaultFormatter renders dollars with English grouping.
func DefaultFormatter() *Formatter {
	return NewFormatter("$", language.English)
}

// Money renders v with two decimals, e.g. "$1,234.50" or "-$12.00".
func (f *Formatter) Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	return sign + f.symbol + f.printer.Sprintf("%.2f", v)
}

// Whole renders v rounded to a whole unit, e.g. "$1,235".
func (f *Formatter) Whole(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	return sign + f.symbol + f.printer.Sprintf("%d", int64(math.Round(v)))
}

// Decimal renders a decimal amount with two places.
func (f *Formatter) Decimal(d decimal.Decimal) string {
	return f.Money(d.InexactFloat64())
}
