package source

import (
	"context"
	"fmt"
	"io"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first sheet of a workbook; its first row is the header.
type XLSXReader struct {
	logger logging.Logger
}

// NewXLSXReader returns a spreadsheet reader.
func NewXLSXReader(opts Options) *XLSXReader {
	return &XLSXReader{logger: opts.logger()}
}

// Read implements Reader. Cells come back as their formatted text.
func (x *XLSXReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{ExpectedFormat: "xlsx", Msg: err.Error()}
	}
	defer func() {
		if err := book.Close(); err != nil {
			x.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return models.RawTable{}, nil
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return models.RawTable{}, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if err := ctx.Err(); err != nil {
		return models.RawTable{}, err
	}
	if len(rows) == 0 {
		return models.RawTable{}, nil
	}

	table := models.RawTable{Headers: rows[0]}
	for _, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		table.Rows = append(table.Rows, padRow(stringsToCells(rec), len(table.Headers)))
	}
	x.logger.Debug("Read workbook sheet",
		logging.F("sheet", sheets[0]),
		logging.F(logging.FieldCount, table.Len()))
	return table, nil
}
