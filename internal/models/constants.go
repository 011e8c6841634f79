package models

// Sentinel labels and defaults applied while normalizing a ledger.
const (
	CategoryOther  = "Other"
	DefaultAccount = "Main Account"
	DefaultType    = "Expense"
)

// Canonical column names of a normalized ledger.
const (
	ColumnDate        = "date"
	ColumnAmount      = "amount"
	ColumnDescription = "description"
	ColumnCategory    = "category"
	ColumnAccount     = "account"
	ColumnType        = "type"
)

// CanonicalColumns lists the ledger columns in export order.
var CanonicalColumns = []string{
	ColumnDate, ColumnAmount, ColumnDescription, ColumnCategory, ColumnAccount, ColumnType,
}

// RequiredColumns must be present in every raw table.
var RequiredColumns = []string{ColumnDate, ColumnAmount, ColumnDescription}

// DateLayout is the textual date format used when a ledger is exported.
const DateLayout = "2006-01-02"
