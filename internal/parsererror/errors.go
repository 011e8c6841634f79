// Package parsererror holds the typed errors raised while turning raw inputs
// into a ledger.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema matches every *SchemaError through errors.Is.
var ErrSchema = errors.New("schema error")

// SchemaError reports required columns absent from an input table.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	if len(e.Found) > 0 {
		msg += fmt.Sprintf(" (found: %s)", strings.Join(e.Found, ", "))
	}
	return msg
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ParseError describes a single cell that could not be coerced.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError means the input does not look like the expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// SourceError wraps a failure of an acquisition source (file, Notion, ...).
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
