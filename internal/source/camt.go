package source

import (
	"context"
	"io"
	"strings"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"
	"fjacquet/bill-analyzer/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// CAMTReader reads the booked entries of an ISO 20022 CAMT.053 statement.
// Debits become expenses with positive amounts; credits keep the type
// "Income".
type CAMTReader struct {
	paths  xmlutils.CAMT053Entry
	logger logging.Logger
}

// NewCAMTReader returns a statement reader using the standard entry paths.
func NewCAMTReader(opts Options) *CAMTReader {
	return &CAMTReader{paths: xmlutils.DefaultCAMT053Entry(), logger: opts.logger()}
}

var camtHeaders = []string{
	models.ColumnDate, models.ColumnDescription, models.ColumnAmount, models.ColumnType, "currency",
}

// Read implements Reader.
func (c *CAMTReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	root, err := xmlutils.Parse(r)
	if err != nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{ExpectedFormat: "camt.053", Msg: err.Error()}
	}
	entries, err := xmlutils.Nodes(root, xmlutils.EntryPath)
	if err != nil {
		return models.RawTable{}, err
	}
	if len(entries) == 0 {
		return models.RawTable{}, &parsererror.InvalidFormatError{ExpectedFormat: "camt.053", Msg: "no Ntry elements"}
	}

	p := c.paths
	ex, err := xmlutils.NewExtractor(p.Amount, p.Currency, p.CreditDebitInd, p.BookingDate, p.ValueDate,
		p.UnstructuredInfo, p.CreditorName, p.DebtorName, p.AddEntryInfo)
	if err != nil {
		return models.RawTable{}, err
	}

	table := models.RawTable{Headers: camtHeaders}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return models.RawTable{}, err
		}
		date := ex.First(entry, p.BookingDate)
		if date == "" {
			date = ex.First(entry, p.ValueDate)
		}
		kind := models.DefaultType
		if ex.First(entry, p.CreditDebitInd) == xmlutils.Credit {
			kind = "Income"
		}
		table.Rows = append(table.Rows, []any{
			date,
			c.description(ex, entry),
			ex.First(entry, p.Amount),
			kind,
			ex.First(entry, p.Currency),
		})
	}
	c.logger.Debug("Read CAMT.053 entries", logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

// description prefers remittance text, then the counterparty, then the
// additional entry info.
func (c *CAMTReader) description(ex *xmlutils.Extractor, entry *xmlpath.Node) string {
	if lines := ex.All(entry, c.paths.UnstructuredInfo); len(lines) > 0 {
		return strings.Join(lines, " ")
	}
	for _, expr := range []string{c.paths.CreditorName, c.paths.DebtorName, c.paths.AddEntryInfo} {
		if v := ex.First(entry, expr); v != "" {
			return v
		}
	}
	return ""
}
