package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"
)

// JSONReader reads an array of flat records, either at the top level or as
// the first array-valued field of a top-level object. Columns appear in the
// order their keys are first seen.
type JSONReader struct {
	logger logging.Logger
}

// NewJSONReader returns a JSON record reader.
func NewJSONReader(opts Options) *JSONReader {
	return &JSONReader{logger: opts.logger()}
}

// Read implements Reader. Numbers are kept as json.Number.
func (j *JSONReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	dec, err := seekArray(dec)
	if err != nil {
		return models.RawTable{}, invalidJSON(err)
	}

	var (
		headers []string
		index   = make(map[string]int)
		records []map[string]any
	)
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return models.RawTable{}, err
		}
		rec, keys, err := readObject(dec)
		if err != nil {
			return models.RawTable{}, invalidJSON(err)
		}
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(headers)
				headers = append(headers, k)
			}
		}
		records = append(records, rec)
	}

	table := models.RawTable{Headers: headers, Rows: make([][]any, len(records))}
	for i, rec := range records {
		row := make([]any, len(headers))
		for k, v := range rec {
			row[index[k]] = v
		}
		table.Rows[i] = row
	}
	j.logger.Debug("Decoded JSON records", logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

func invalidJSON(err error) error {
	return &parsererror.InvalidFormatError{ExpectedFormat: "json", Msg: err.Error()}
}

// seekArray returns a decoder positioned inside the record array.
func seekArray(dec *json.Decoder) (*json.Decoder, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case json.Delim('['):
		return dec, nil
	case json.Delim('{'):
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			if len(raw) > 0 && raw[0] == '[' {
				inner := json.NewDecoder(bytes.NewReader(raw))
				inner.UseNumber()
				if _, err := inner.Token(); err != nil {
					return nil, err
				}
				return inner, nil
			}
		}
	}
	return nil, errors.New("expected an array of records")
}

// readObject reads one object and returns its values and keys in order.
func readObject(dec *json.Decoder) (map[string]any, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok != json.Delim('{') {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}

	rec := make(map[string]any)
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := keyTok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, seen := rec[key]; !seen {
			keys = append(keys, key)
		}
		rec[key] = flatten(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return rec, keys, nil
}

// flatten renders nested values as compact JSON text.
func flatten(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(b)
	}
	return v
}
