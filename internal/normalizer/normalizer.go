// Package normalizer turns raw tables from any source into a validated,
// categorized and date-ordered ledger.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/currencyutils"
	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Categorizer is the part of categorizer.Categorizer the normalizer needs.
type Categorizer interface {
	CategorizeBatch(descriptions []string) []string
	Fallback() string
}

// Diagnostics counts what normalization discarded.
type Diagnostics struct {
	InputRows        int      `json:"input_rows"`
	OutputRows       int      `json:"output_rows"`
	InvalidDate      int      `json:"invalid_date"`
	InvalidAmount    int      `json:"invalid_amount"`
	EmptyDescription int      `json:"empty_description"`
	DroppedColumns   []string `json:"dropped_columns,omitempty"`
	Recategorized    bool     `json:"recategorized"`
}

// Dropped is the total number of discarded rows.
func (d Diagnostics) Dropped() int {
	return d.InvalidDate + d.InvalidAmount + d.EmptyDescription
}

// Normalizer validates raw tables against the ledger schema.
type Normalizer struct {
	categorizer Categorizer
	logger      logging.Logger
}

// New creates a normalizer that labels uncategorized rows with c.
func New(c Categorizer, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Normalizer{categorizer: c, logger: logger}
}

// meaningless category labels trigger re-categorization of the whole column.
var meaningless = map[string]bool{"": true, "other": true}

// Normalize validates raw and returns the resulting ledger. A missing required
// column is a *parsererror.SchemaError; bad rows are dropped and counted.
func (n *Normalizer) Normalize(raw models.RawTable) (models.Ledger, Diagnostics, error) {
	diag := Diagnostics{InputRows: raw.Len()}

	cols := ResolveColumns(raw.Headers)
	diag.DroppedColumns = cols.Dropped
	if missing := cols.Missing(); len(missing) > 0 {
		return models.Ledger{}, diag, &parsererror.SchemaError{Missing: missing, Found: raw.Headers}
	}
	if len(cols.Dropped) > 0 {
		n.logger.Debug("Dropped duplicate alias columns", logging.F(logging.FieldDropped, cols.Dropped))
	}

	catIdx, hasCategory := cols.Index[models.ColumnCategory]
	accIdx, hasAccount := cols.Index[models.ColumnAccount]
	typeIdx, hasType := cols.Index[models.ColumnType]

	txs := make([]models.Transaction, 0, raw.Len())
	var labels []string
	for r := range raw.Rows {
		date, err := toDate(raw.Cell(r, cols.Index[models.ColumnDate]))
		if err != nil {
			diag.InvalidDate++
			n.logRowError(r, models.ColumnDate, raw.Cell(r, cols.Index[models.ColumnDate]), err)
			continue
		}
		amount, err := toAmount(raw.Cell(r, cols.Index[models.ColumnAmount]))
		if err != nil {
			diag.InvalidAmount++
			n.logRowError(r, models.ColumnAmount, raw.Cell(r, cols.Index[models.ColumnAmount]), err)
			continue
		}
		description := strings.TrimSpace(toText(raw.Cell(r, cols.Index[models.ColumnDescription])))
		if description == "" {
			diag.EmptyDescription++
			continue
		}

		tx := models.Transaction{
			Date:        date,
			Amount:      amount.Abs(),
			Description: description,
			Account:     models.DefaultAccount,
			Type:        models.DefaultType,
		}
		if hasAccount {
			if v := strings.TrimSpace(toText(raw.Cell(r, accIdx))); v != "" {
				tx.Account = v
			}
		}
		if hasType {
			if v := strings.TrimSpace(toText(raw.Cell(r, typeIdx))); v != "" {
				tx.Type = v
			}
		}
		if hasCategory {
			labels = append(labels, strings.TrimSpace(toText(raw.Cell(r, catIdx))))
		}
		txs = append(txs, tx)
	}

	// Judged on the whole column, dropped rows included.
	diag.Recategorized = !hasCategory || !hasMeaningfulLabel(raw, catIdx)
	if diag.Recategorized {
		descriptions := make([]string, len(txs))
		for i := range txs {
			descriptions[i] = txs[i].Description
		}
		for i, category := range n.categorizer.CategorizeBatch(descriptions) {
			txs[i].Category = category
		}
	} else {
		for i := range txs {
			txs[i].Category = labels[i]
			if txs[i].Category == "" {
				txs[i].Category = n.categorizer.Fallback()
			}
		}
	}

	diag.OutputRows = len(txs)
	n.logger.Info("Ledger normalized",
		logging.F("input_rows", diag.InputRows),
		logging.F(logging.FieldCount, diag.OutputRows),
		logging.F(logging.FieldDropped, diag.Dropped()),
		logging.F("recategorized", diag.Recategorized))

	return models.NewLedger(txs, models.Provenance{}), diag, nil
}

func (n *Normalizer) logRowError(row int, field string, value any, err error) {
	pe := &parsererror.ParseError{Row: row + 1, Field: field, Value: toText(value), Err: err}
	n.logger.Debug("Dropping row", logging.F(logging.FieldReason, pe.Error()))
}

func hasMeaningfulLabel(raw models.RawTable, col int) bool {
	for r := range raw.Rows {
		if !meaningless[strings.ToLower(strings.TrimSpace(toText(raw.Cell(r, col))))] {
			return true
		}
	}
	return false
}

func toDate(cell any) (time.Time, error) {
	switch v := cell.(type) {
	case nil:
		return time.Time{}, errors.New("missing date")
	case time.Time:
		if v.IsZero() {
			return time.Time{}, errors.New("zero date")
		}
		return dateutils.Day(v), nil
	case string:
		return dateutils.ParseDate(v)
	default:
		return dateutils.ParseDate(toText(v))
	}
}

func toAmount(cell any) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case nil:
		return decimal.Zero, errors.New("missing amount")
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("non-finite amount %v", v)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return toAmount(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case decimal.Decimal:
		return v, nil
	case string:
		return currencyutils.ParseAmount(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", cell)
	}
}

func toText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(dateutils.DateLayoutISO)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
