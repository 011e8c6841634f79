package models

import (
	"iter"
	"slices"
	"sort"
	"time"
)

// Ledger is an immutable, date-ascending collection of transactions.
// Every operation that narrows or relabels a ledger returns a new value.
type Ledger struct {
	txs        []Transaction
	provenance Provenance
}

// NewLedger copies txs and stable-sorts the copy by date, so rows sharing a
// date keep their input order.
func NewLedger(txs []Transaction, prov Provenance) Ledger {
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return Ledger{txs: sorted, provenance: prov}
}

// Len returns the number of transactions.
func (l Ledger) Len() int { return len(l.txs) }

// IsEmpty reports whether the ledger has no transactions.
func (l Ledger) IsEmpty() bool { return len(l.txs) == 0 }

// At returns the i-th transaction in date order.
func (l Ledger) At(i int) Transaction { return l.txs[i] }

// All iterates over the transactions in date order.
func (l Ledger) All() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.txs {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Transactions returns a copy of the underlying rows.
func (l Ledger) Transactions() []Transaction {
	return slices.Clone(l.txs)
}

// Provenance describes where the ledger came from.
func (l Ledger) Provenance() Provenance { return l.provenance }

// WithProvenance returns the same rows under a different provenance.
func (l Ledger) WithProvenance(p Provenance) Ledger {
	return Ledger{txs: l.txs, provenance: p}
}

// DateRange returns the first and last transaction dates. ok is false for an
// empty ledger.
func (l Ledger) DateRange() (first, last time.Time, ok bool) {
	if len(l.txs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return l.txs[0].Date, l.txs[len(l.txs)-1].Date, true
}

// DaySpan is the number of whole days between the first and last dates.
func (l Ledger) DaySpan() int {
	first, last, ok := l.DateRange()
	if !ok {
		return 0
	}
	return int(last.Sub(first).Hours() / 24)
}

// Categories returns the distinct category labels, sorted.
func (l Ledger) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range l.txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	sort.Strings(out)
	return out
}

// Filter returns a new ledger holding the rows accepted by f.
func (l Ledger) Filter(f Filter) Ledger {
	if f.IsZero() {
		return l
	}
	return l.Where(f.Match)
}

// Where returns a new ledger holding the rows accepted by keep.
func (l Ledger) Where(keep func(Transaction) bool) Ledger {
	var kept []Transaction
	for _, tx := range l.txs {
		if keep(tx) {
			kept = append(kept, tx)
		}
	}
	return Ledger{txs: kept, provenance: l.provenance}
}

// ToRawTable renders the ledger with canonical headers. Normalizing the
// result yields the same ledger again.
func (l Ledger) ToRawTable() RawTable {
	rows := make([][]any, 0, len(l.txs))
	for _, tx := range l.txs {
		rows = append(rows, []any{
			tx.Date.Format(DateLayout),
			tx.Amount.String(),
			tx.Description,
			tx.Category,
			tx.Account,
			tx.Type,
		})
	}
	return RawTable{Headers: slices.Clone(CanonicalColumns), Rows: rows}
}
