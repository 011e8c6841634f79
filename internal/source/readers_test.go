package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/bill-analyzer/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"bills.csv", CSV, false},
		{"BILLS.CSV", CSV, false},
		{"export.json", JSON, false},
		{"book.xlsx", XLSX, false},
		{"page.html", HTML, false},
		{"statement.xml", CAMT, false},
		{"journal.md", Journal, false},
		{"scan.pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				var formatErr *parsererror.InvalidFormatError
				assert.True(t, errors.As(err, &formatErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVReader(t *testing.T) {
	input := "\xEF\xBB\xBFDate,Description,Amount\n2024-01-01,\"Coffee, large\",4.50\n\n2024-01-02,Bus\n"
	table, err := NewCSVReader(Options{}).Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"2024-01-01", "Coffee, large", "4.50"}, table.Rows[0])
	assert.Equal(t, []any{"2024-01-02", "Bus", nil}, table.Rows[1], "short rows are padded")
}

func TestCSVReader_Delimiter(t *testing.T) {
	input := "date;description;amount\n2024-01-01;Coffee;4,50\n"
	table, err := NewCSVReader(Options{Delimiter: ';'}).Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []any{"2024-01-01", "Coffee", "4,50"}, table.Rows[0])
}

func TestCSVReader_Empty(t *testing.T) {
	table, err := NewCSVReader(Options{}).Read(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestJSONReader_PreservesKeyOrder(t *testing.T) {
	input := `[
		{"when": "2024-01-01", "what": "Coffee", "cost": 4.5},
		{"what": "Bus", "cost": 2, "when": "2024-01-02", "tags": ["a"]}
	]`
	table, err := NewJSONReader(Options{}).Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"when", "what", "cost", "tags"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"2024-01-01", "Coffee", json.Number("4.5"), nil}, table.Rows[0])
	assert.Equal(t, []any{"2024-01-02", "Bus", json.Number("2"), `["a"]`}, table.Rows[1])
}

func TestJSONReader_WrappedArray(t *testing.T) {
	input := `{"version": 2, "transactions": [{"date": "2024-01-01", "amount": 3}]}`
	table, err := NewJSONReader(Options{}).Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount"}, table.Headers)
	assert.Equal(t, 1, table.Len())
}

func TestJSONReader_Invalid(t *testing.T) {
	for _, input := range []string{`"text"`, `{"a": 1}`, `[1, 2]`, `[{"a": }]`} {
		_, err := NewJSONReader(Options{}).Read(context.Background(), strings.NewReader(input))
		var formatErr *parsererror.InvalidFormatError
		assert.True(t, errors.As(err, &formatErr), input)
	}
}

func TestXLSXReader(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"date", "description", "amount"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"2024-01-01", "Coffee", 4.5}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"2024-01-02", "Bus"}))
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	table, err := NewXLSXReader(Options{}).Read(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "description", "amount"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"2024-01-01", "Coffee", "4.5"}, table.Rows[0])
	assert.Equal(t, []any{"2024-01-02", "Bus", nil}, table.Rows[1])
}

func TestXLSXReader_Garbage(t *testing.T) {
	_, err := NewXLSXReader(Options{}).Read(context.Background(), strings.NewReader("not a zip"))
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestHTMLReader(t *testing.T) {
	input := `<html><body><h1>Bills</h1>
	<table>
	  <thead><tr><th>Date</th><th>Description</th><th>Amount</th></tr></thead>
	  <tbody>
	    <tr><td>2024-01-01</td><td><b>Coffee</b>  shop</td><td>4.50</td></tr>
	    <tr><td>2024-01-02</td><td>Bus</td></tr>
	  </tbody>
	</table>
	<table><tr><td>ignored</td></tr></table>
	</body></html>`
	table, err := NewHTMLReader(Options{}).Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"2024-01-01", "Coffee shop", "4.50"}, table.Rows[0])
	assert.Equal(t, []any{"2024-01-02", "Bus", nil}, table.Rows[1])
}

func TestHTMLReader_NoTable(t *testing.T) {
	_, err := NewHTMLReader(Options{}).Read(context.Background(), strings.NewReader("<p>nothing</p>"))
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

const camtStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
<BkToCstmrStmt><Stmt>
  <Ntry>
    <Amt Ccy="CHF">42.10</Amt><CdtDbtInd>DBIT</CdtDbtInd>
    <BookgDt><Dt>2024-03-01</Dt></BookgDt>
    <NtryDtls><TxDtls><RmtInf><Ustrd>Migros Zurich</Ustrd></RmtInf></TxDtls></NtryDtls>
  </Ntry>
  <Ntry>
    <Amt Ccy="CHF">5000.00</Amt><CdtDbtInd>CRDT</CdtDbtInd>
    <ValDt><Dt>2024-03-25</Dt></ValDt>
    <NtryDtls><TxDtls><RltdPties><Dbtr><Nm>ACME Corp</Nm></Dbtr></RltdPties></TxDtls></NtryDtls>
  </Ntry>
</Stmt></BkToCstmrStmt></Document>`

func TestCAMTReader(t *testing.T) {
	table, err := NewCAMTReader(Options{}).Read(context.Background(), strings.NewReader(camtStatement))
	require.NoError(t, err)
	assert.Equal(t, camtHeaders, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"2024-03-01", "Migros Zurich", "42.10", "Expense", "CHF"}, table.Rows[0])
	assert.Equal(t, []any{"2024-03-25", "ACME Corp", "5000.00", "Income", "CHF"}, table.Rows[1])
}

func TestCAMTReader_NoEntries(t *testing.T) {
	_, err := NewCAMTReader(Options{}).Read(context.Background(), strings.NewReader("<Document/>"))
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestJournalReader(t *testing.T) {
	input := "Groceries log\n2024/08/01:\n1: Sichuan noodles：59 Food\nBus card：30 T\n\n08/02:\nLunch: 12.5 T Food\nnot a line\n"
	r := NewJournalReader(Options{})
	r.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	table, err := r.Read(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []any{"2024-08-01", "Sichuan noodles", "59", "Food"}, table.Rows[0])
	assert.Equal(t, []any{"2024-08-01", "Bus card", "30", nil}, table.Rows[1])
	assert.Equal(t, []any{"2025-08-02", "Lunch", "12.5", "Food"}, table.Rows[2])
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,description,amount\n2024-01-01,Coffee,3\n"), 0600))

	table, err := ReadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)
}
