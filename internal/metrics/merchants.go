package metrics

import (
	"math"
	"sort"
	"time"

	"fjacquet/bill-analyzer/internal/models"
)

// MerchantRow aggregates all transactions sharing a description.
type MerchantRow struct {
	Merchant string  `json:"merchant" csv:"merchant"`
	Total    float64 `json:"total" csv:"total"`
	Count    int     `json:"count" csv:"transactions"`
	Mean     float64 `json:"mean" csv:"average"`
}

// Anomaly is a transaction whose amount lies more than two standard
// deviations from the mean.
type Anomaly struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	ZScore      float64   `json:"z_score"`
}

// SavingsEstimate is the potential saving of one category.
type SavingsEstimate struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Rate     float64 `json:"rate"`
}

// Savings lists per-category estimates and their sum.
type Savings struct {
	Categories []SavingsEstimate `json:"categories"`
	Total      float64           `json:"total"`
}

// BudgetLine is a suggested monthly budget for a category.
type BudgetLine struct {
	Category       string  `json:"category"`
	MonthlyAverage float64 `json:"monthly_average"`
	Suggested      float64 `json:"suggested"`
}

// AnomalyThreshold is the absolute z-score above which an amount is flagged.
const AnomalyThreshold = 2.0

// discretionary categories are assumed to allow larger cuts.
var discretionary = map[string]bool{"Food": true, "Entertainment": true, "Shopping": true}

// TopMerchants returns the n descriptions with the largest totals.
func TopMerchants(l models.Ledger, n int) []MerchantRow {
	groups := make(map[string]*group)
	for _, tx := range l.All() {
		if groups[tx.Description] == nil {
			groups[tx.Description] = &group{}
		}
		groups[tx.Description].add(tx)
	}
	rows := make([]MerchantRow, 0, len(groups))
	for name, g := range groups {
		rows = append(rows, MerchantRow{Merchant: name, Total: g.totalFloat(), Count: g.count(), Mean: g.mean()})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Merchant < rows[j].Merchant
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// TopTransactions returns the n largest transactions, earliest first among
// equal amounts.
func TopTransactions(l models.Ledger, n int) []models.Transaction {
	txs := l.Transactions()
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Amount.GreaterThan(txs[j].Amount)
	})
	if n > 0 && len(txs) > n {
		txs = txs[:n]
	}
	return txs
}

// DetectAnomalies flags transactions with |z| > AnomalyThreshold, largest
// z first. Ledgers with fewer than two rows or no spread have none.
func DetectAnomalies(l models.Ledger) []Anomaly {
	amounts := make([]float64, 0, l.Len())
	for _, tx := range l.All() {
		amounts = append(amounts, tx.AmountFloat())
	}
	sd := sampleStdDev(amounts)
	if !sd.IsDefined() || sd.Value == 0 {
		return nil
	}
	mu := mean(amounts)

	var out []Anomaly
	for i, tx := range l.All() {
		z := math.Abs(amounts[i]-mu) / sd.Value
		if z > AnomalyThreshold {
			out = append(out, Anomaly{
				Date:        tx.Date,
				Description: tx.Description,
				Amount:      models.Round(amounts[i], 2),
				Category:    tx.Category,
				ZScore:      models.Round(z, 2),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZScore > out[j].ZScore })
	return out
}

// SavingsPotential estimates 15% savings on discretionary categories and 5%
// on the others, based on category totals.
func SavingsPotential(l models.Ledger) Savings {
	var s Savings
	var total float64
	for _, row := range CategorySummary(l) {
		rate := 0.05
		if discretionary[row.Category] {
			rate = 0.15
		}
		amount := row.Total * rate
		total += amount
		s.Categories = append(s.Categories, SavingsEstimate{Category: row.Category, Amount: models.Round(amount, 2), Rate: rate})
	}
	s.Total = models.Round(total, 2)
	return s
}

// BudgetSuggestions proposes a monthly budget of the average monthly spend
// plus 10% per category, ordered like CategorySummary.
func BudgetSuggestions(l models.Ledger) []BudgetLine {
	months := len(MonthlySummary(l))
	if months == 0 {
		return nil
	}
	var out []BudgetLine
	for _, row := range CategorySummary(l) {
		avg := row.Total / float64(months)
		out = append(out, BudgetLine{
			Category:       row.Category,
			MonthlyAverage: models.Round(avg, 2),
			Suggested:      models.Round(avg*1.1, 2),
		})
	}
	return out
}
