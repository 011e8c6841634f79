package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads delimited text with a header row.
type CSVReader struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVReader defaults the delimiter to a comma.
func NewCSVReader(opts Options) *CSVReader {
	d := opts.Delimiter
	if d == 0 {
		d = ','
	}
	return &CSVReader{delimiter: d, logger: opts.logger()}
}

// Read implements Reader. Every cell is returned as a string.
func (c *CSVReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(br)
	csvReader.Comma = c.delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	records, err := gocsv.NewSimpleDecoderFromCSVReader(csvReader).GetCSVRows()
	if err != nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "csv",
			Msg:            fmt.Sprintf("malformed delimited text: %v", err),
		}
	}
	if err := ctx.Err(); err != nil {
		return models.RawTable{}, err
	}
	if len(records) == 0 {
		return models.RawTable{}, nil
	}

	table := models.RawTable{Headers: records[0]}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		table.Rows = append(table.Rows, padRow(stringsToCells(rec), len(table.Headers)))
	}
	c.logger.Debug("Decoded CSV rows",
		logging.F(logging.FieldCount, table.Len()),
		logging.F(logging.FieldDelimiter, string(c.delimiter)))
	return table, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
