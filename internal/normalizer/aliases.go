package normalizer

import (
	"regexp"
	"strings"

	"fjacquet/bill-analyzer/internal/models"
)

// columnAliases maps normalized header spellings to canonical column names.
var columnAliases = map[string]string{
	"date":             models.ColumnDate,
	"transaction_date": models.ColumnDate,
	"trans_date":       models.ColumnDate,
	"posting_date":     models.ColumnDate,
	"when":             models.ColumnDate,
	"time":             models.ColumnDate,

	"amount":             models.ColumnAmount,
	"transaction_amount": models.ColumnAmount,
	"debit":              models.ColumnAmount,
	"credit":             models.ColumnAmount,
	"cost":               models.ColumnAmount,
	"price":              models.ColumnAmount,
	"total":              models.ColumnAmount,
	"expense":            models.ColumnAmount,
	"spent":              models.ColumnAmount,
	"money":              models.ColumnAmount,
	"value":              models.ColumnAmount,

	"description":             models.ColumnDescription,
	"transaction_description": models.ColumnDescription,
	"desc":                    models.ColumnDescription,
	"merchant":                models.ColumnDescription,
	"payee":                   models.ColumnDescription,
	"vendor":                  models.ColumnDescription,
	"store":                   models.ColumnDescription,
	"item":                    models.ColumnDescription,
	"what":                    models.ColumnDescription,
	"details":                 models.ColumnDescription,
	"name":                    models.ColumnDescription,
	"title":                   models.ColumnDescription,

	"category":         models.ColumnCategory,
	"cat":              models.ColumnCategory,
	"expense_category": models.ColumnCategory,
	"kind":             models.ColumnCategory,
	"group":            models.ColumnCategory,

	"account":      models.ColumnAccount,
	"account_name": models.ColumnAccount,
	"bank_account": models.ColumnAccount,
	"bank":         models.ColumnAccount,
	"card":         models.ColumnAccount,

	"type":             models.ColumnType,
	"transaction_type": models.ColumnType,
	"trans_type":       models.ColumnType,
}

var separators = regexp.MustCompile(`[\s\-]+`)

// NormalizeHeader lower-cases a header and joins its words with underscores.
func NormalizeHeader(h string) string {
	return separators.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// CanonicalColumn returns the canonical name for a raw header.
func CanonicalColumn(h string) (string, bool) {
	name, ok := columnAliases[NormalizeHeader(h)]
	return name, ok
}

// ColumnMapping is the result of header resolution: canonical name to raw
// column index, plus the raw headers that were dropped as duplicates.
type ColumnMapping struct {
	Index   map[string]int
	Dropped []string
}

// ResolveColumns maps raw headers to canonical columns. When several headers
// alias the same canonical name, the first in raw order wins.
func ResolveColumns(headers []string) ColumnMapping {
	m := ColumnMapping{Index: make(map[string]int, len(models.CanonicalColumns))}
	for i, h := range headers {
		name, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		if _, taken := m.Index[name]; taken {
			m.Dropped = append(m.Dropped, h)
			continue
		}
		m.Index[name] = i
	}
	return m
}

// Missing lists the required columns absent from the mapping.
func (m ColumnMapping) Missing() []string {
	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := m.Index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
