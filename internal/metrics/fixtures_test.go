package metrics

import (
	"time"

	"fjacquet/bill-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(d time.Time, amount float64, desc, category string) models.Transaction {
	return models.Transaction{
		Date:        d,
		Amount:      decimal.NewFromFloat(amount),
		Description: desc,
		Category:    category,
		Account:     models.DefaultAccount,
		Type:        models.DefaultType,
	}
}

func ledgerOf(txs ...models.Transaction) models.Ledger {
	return models.NewLedger(txs, models.Provenance{Source: "test"})
}

// quarterLedger covers Jan-Mar 2024 with three categories.
func quarterLedger() models.Ledger {
	return ledgerOf(
		tx(day(2024, 1, 1), 10, "Starbucks", "Food"),   // Monday
		tx(day(2024, 1, 2), 30, "Starbucks", "Food"),   // Tuesday
		tx(day(2024, 1, 6), 100, "Safeway", "Grocery"), // Saturday
		tx(day(2024, 2, 5), 20, "Chipotle", "Food"),    // Monday
		tx(day(2024, 2, 10), 60, "Safeway", "Grocery"), // Saturday
		tx(day(2024, 3, 4), 40, "Shell", "Transportation"),
		tx(day(2024, 3, 5), 40, "Chipotle", "Food"),
	)
}
