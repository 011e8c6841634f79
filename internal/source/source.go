// Package source turns external inputs into raw tables for the normalizer.
package source

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/bill-analyzer/internal/fileutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"
)

// Reader reads one tabular document.
type Reader interface {
	Read(ctx context.Context, r io.Reader) (models.RawTable, error)
}

// Format identifies a supported file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XLSX Format = "xlsx"
	HTML Format = "html"
	CAMT Format = "camt"
	// Journal is a plain-text spending log with date headers.
	Journal Format = "journal"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{CSV, JSON, XLSX, HTML, CAMT, Journal}
}

// Options tune the readers.
type Options struct {
	Delimiter rune
	Logger    logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewDiscardLogger()
	}
	return o.Logger
}

// FormatFor picks a format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	case ".html", ".htm":
		return HTML, nil
	case ".xml":
		return CAMT, nil
	case ".md":
		return Journal, nil
	}
	return "", &parsererror.InvalidFormatError{
		FilePath:       path,
		ExpectedFormat: "csv, json, xlsx, html, xml or md",
		Msg:            "unsupported file extension",
	}
}

// New returns the reader for a format.
func New(f Format, opts Options) (Reader, error) {
	switch f {
	case CSV:
		return NewCSVReader(opts), nil
	case JSON:
		return NewJSONReader(opts), nil
	case XLSX:
		return NewXLSXReader(opts), nil
	case HTML:
		return NewHTMLReader(opts), nil
	case CAMT:
		return NewCAMTReader(opts), nil
	case Journal:
		return NewJournalReader(opts), nil
	}
	return nil, fmt.Errorf("unknown format: %s", f)
}

// ForFile returns the reader matching a file path.
func ForFile(path string, opts Options) (Reader, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return New(f, opts)
}

// ReadFile opens path and reads it with the reader its extension selects.
func ReadFile(ctx context.Context, path string, opts Options) (models.RawTable, error) {
	reader, err := ForFile(path, opts)
	if err != nil {
		return models.RawTable{}, err
	}
	file, err := fileutils.OpenFile(path)
	if err != nil {
		return models.RawTable{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			opts.logger().WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	table, err := reader.Read(ctx, file)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("reading %s: %w", path, err)
	}
	opts.logger().Debug("Read source file",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

// padRow extends a row to width with nil cells.
func padRow(row []any, width int) []any {
	for len(row) < width {
		row = append(row, nil)
	}
	return row
}

func stringsToCells(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
