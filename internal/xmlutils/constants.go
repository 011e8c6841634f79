package xmlutils

// EntryPath selects every booked entry of a CAMT.053 statement.
const EntryPath = "//Ntry"

// CAMT053Entry holds the XPath expressions evaluated relative to one Ntry node.
type CAMT053Entry struct {
	Amount           string
	Currency         string
	CreditDebitInd   string
	BookingDate      string
	ValueDate        string
	UnstructuredInfo string
	CreditorName     string
	DebtorName       string
	AddEntryInfo     string
}

// DefaultCAMT053Entry returns the standard entry paths.
func DefaultCAMT053Entry() CAMT053Entry {
	return CAMT053Entry{
		Amount:           "Amt",
		Currency:         "Amt/@Ccy",
		CreditDebitInd:   "CdtDbtInd",
		BookingDate:      "BookgDt/Dt",
		ValueDate:        "ValDt/Dt",
		UnstructuredInfo: "NtryDtls/TxDtls/RmtInf/Ustrd",
		CreditorName:     "NtryDtls/TxDtls/RltdPties/Cdtr/Nm",
		DebtorName:       "NtryDtls/TxDtls/RltdPties/Dbtr/Nm",
		AddEntryInfo:     "AddtlNtryInf",
	}
}

// Credit/debit indicator values.
const (
	Credit = "CRDT"
	Debit  = "DBIT"
)
