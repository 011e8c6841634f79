// Package report renders tabular reports of a ledger as CSV or PDF.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/fileutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/gocarina/gocsv"
)

// Kind names a report.
type Kind string

const (
	Monthly  Kind = "monthly"
	Category Kind = "category"
	Yearly   Kind = "yearly"
	Custom   Kind = "custom"
)

// Kinds lists the report kinds.
func Kinds() []Kind {
	return []Kind{Monthly, Category, Yearly, Custom}
}

// ParseKind validates a report name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Kinds() {
		if k == valid {
			return k, nil
		}
	}
	names := make([]string, len(Kinds()))
	for i, valid := range Kinds() {
		names[i] = string(valid)
	}
	return "", fmt.Errorf("unknown report kind %q (valid: %s)", s, strings.Join(names, ", "))
}

// Format is an output encoding.
type Format string

const (
	CSV Format = "csv"
	PDF Format = "pdf"
)

// ParseFormat validates an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, PDF:
		return f, nil
	case "":
		return CSV, nil
	}
	return "", fmt.Errorf("unknown report format %q (valid: csv, pdf)", s)
}

// CustomRow is the single row of the custom report.
type CustomRow struct {
	TotalSpending      float64 `csv:"total_spending"`
	AverageTransaction float64 `csv:"average_transaction"`
	TransactionCount   int     `csv:"transaction_count"`
	DateRange          string  `csv:"date_range"`
	TopCategory        string  `csv:"top_category"`
	TopMerchant        string  `csv:"top_merchant"`
}

// LedgerRow is one exported transaction.
type LedgerRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Account     string `csv:"account"`
	Type        string `csv:"type"`
}

// Generator writes reports with a fixed delimiter.
type Generator struct {
	delimiter rune
	logger    logging.Logger
}

// NewGenerator defaults the delimiter to a comma.
func NewGenerator(delimiter rune, logger logging.Logger) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Generator{delimiter: delimiter, logger: logger}
}

// Rows returns the rows of a report kind as a slice of structs.
func Rows(kind Kind, l models.Ledger) (any, error) {
	switch kind {
	case Monthly:
		return metrics.MonthlySummary(l), nil
	case Category:
		return metrics.CategorySummary(l), nil
	case Yearly:
		return metrics.YearlySummary(l), nil
	case Custom:
		return customRows(l), nil
	}
	_, err := ParseKind(string(kind))
	return nil, err
}

func customRows(l models.Ledger) []CustomRow {
	if l.IsEmpty() {
		return []CustomRow{}
	}
	o := metrics.Summarize(l)
	row := CustomRow{
		TotalSpending:      o.Total,
		AverageTransaction: o.Mean,
		TransactionCount:   o.Count,
		DateRange:          fmt.Sprintf("%s to %s", dateutils.ToISODate(o.Start), dateutils.ToISODate(o.End)),
	}
	if cats := metrics.CategorySummary(l); len(cats) > 0 {
		row.TopCategory = cats[0].Category
	}
	if merchants := metrics.TopMerchants(l, 1); len(merchants) > 0 {
		row.TopMerchant = merchants[0].Merchant
	}
	return []CustomRow{row}
}

// LedgerRows converts a ledger to export rows.
func LedgerRows(l models.Ledger) []LedgerRow {
	rows := make([]LedgerRow, 0, l.Len())
	for _, tx := range l.All() {
		rows = append(rows, LedgerRow{
			Date:        dateutils.ToISODate(tx.Date),
			Amount:      tx.Amount.StringFixed(2),
			Description: tx.Description,
			Category:    tx.Category,
			Account:     tx.Account,
			Type:        tx.Type,
		})
	}
	return rows
}

func (g *Generator) marshal(w io.Writer, rows any) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Write serializes a report as delimited text with a header row.
func (g *Generator) Write(w io.Writer, kind Kind, l models.Ledger) error {
	rows, err := Rows(kind, l)
	if err != nil {
		return err
	}
	return g.marshal(w, rows)
}

// WriteLedger exports the canonical ledger columns.
func (g *Generator) WriteLedger(w io.Writer, l models.Ledger) error {
	return g.marshal(w, LedgerRows(l))
}

// Table renders a report as a header row followed by text cells.
func (g *Generator) Table(kind Kind, l models.Ledger) ([][]string, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, kind, l); err != nil {
		return nil, err
	}
	r := csv.NewReader(&buf)
	r.Comma = g.delimiter
	return r.ReadAll()
}

// Export writes <kind>_report.<format> into dir and returns its path.
func (g *Generator) Export(dir string, kind Kind, format Format, l models.Ledger) (string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_report.%s", kind, format))
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	switch format {
	case PDF:
		err = g.WritePDF(file, kind, l)
	default:
		err = g.Write(file, kind, l)
	}
	if err != nil {
		return "", err
	}
	g.logger.Info("Report exported",
		logging.F(logging.FieldReportKind, string(kind)),
		logging.F(logging.FieldOutputFile, path))
	return path, nil
}

// ExportLedger writes the ledger to path.
func (g *Generator) ExportLedger(path string, l models.Ledger) error {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	if err := g.WriteLedger(file, l); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	g.logger.Info("Ledger exported",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, l.Len()))
	return nil
}
