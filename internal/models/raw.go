package models

// RawTable is the loosely typed input handed to the normalizer by a source.
// Row cell i belongs to Headers[i]. Cells may be string, float64, int,
// json.Number, time.Time, bool or nil; short rows are padded with nil.
type RawTable struct {
	Headers []string
	Rows    [][]any
}

// Cell returns the value at row r, column c, or nil when the row is short.
func (t RawTable) Cell(r, c int) any {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return nil
	}
	return t.Rows[r][c]
}

// Len is the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}
