// Package sample generates a deterministic synthetic ledger used for demos
// and as a fallback when no real data can be loaded.
package sample

import (
	"math"
	"math/rand/v2"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultCount is the number of generated transactions.
	DefaultCount = 500
	// DefaultSeed makes runs reproducible.
	DefaultSeed = 42
	// Account is the account label of every generated transaction.
	Account = "Main Checking"
	// Source is the provenance source of generated ledgers.
	Source = "sample"

	window = 365 * 24 * time.Hour
)

type profile struct {
	category     string
	weight       float64
	mean, stdDev float64
	min, max     float64
	descriptions []string
}

var profiles = []profile{
	{"Food", 0.20, 25, 15, 5, 150, []string{
		"McDonald's #1234", "Starbucks Coffee", "Pizza Palace", "Local Restaurant",
		"Subway Sandwiches", "Coffee Shop", "Burger King", "Chinese Takeout", "Lunch Cafe"}},
	{"Grocery", 0.15, 75, 30, 20, 200, []string{
		"Walmart Supercenter", "Target Store", "Whole Foods Market", "Local Grocery Store",
		"Costco Wholesale", "Safeway", "Trader Joe's", "Kroger", "Publix"}},
	{"Transportation", 0.15, 35, 20, 10, 100, []string{
		"Shell Gas Station", "Uber Trip", "Metro Transit", "Parking Meter", "Car Wash",
		"Exxon Mobil", "Lyft Ride", "Bus Fare", "Toll Plaza"}},
	{"Shopping", 0.15, 85, 50, 15, 500, []string{
		"Amazon Purchase", "Best Buy Electronics", "Clothing Store", "Home Depot",
		"Apple Store", "Online Shopping", "Department Store", "Shoe Store", "Electronics Shop"}},
	{"Entertainment", 0.10, 40, 25, 10, 150, []string{
		"Movie Theater", "Netflix Subscription", "Spotify Premium", "Concert Tickets",
		"Sports Bar", "Gaming Store", "Streaming Service", "Music Store", "Entertainment Venue"}},
	{"Utilities", 0.10, 120, 30, 80, 250, []string{
		"Electric Company", "Water Department", "Internet Provider", "Cable TV",
		"Mobile Phone", "Gas Company", "Utility Payment", "Phone Bill", "Internet Bill"}},
	{"Healthcare", 0.08, 95, 60, 20, 400, []string{
		"Doctor Visit", "Pharmacy", "Dental Clinic", "Medical Center", "Health Insurance",
		"Prescription", "Hospital", "Clinic Visit", "Medical Supply"}},
	{models.CategoryOther, 0.07, 50, 40, 5, 300, []string{
		"Bank Fee", "ATM Withdrawal", "Service Charge", "Miscellaneous", "Unknown Charge",
		"Other Expense", "Fee Payment", "Service Fee", "General Purchase"}},
}

// Config controls generation. Zero values select the defaults.
type Config struct {
	Count int
	Seed  uint64
	Now   func() time.Time
}

// Generator produces synthetic ledgers.
type Generator struct {
	count int
	seed  uint64
	now   func() time.Time
}

// New applies defaults to cfg.
func New(cfg Config) *Generator {
	g := &Generator{count: cfg.Count, seed: cfg.Seed, now: cfg.Now}
	if g.count <= 0 {
		g.count = DefaultCount
	}
	if g.seed == 0 {
		g.seed = DefaultSeed
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Categories lists the generated categories in weight order.
func Categories() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.category
	}
	return out
}

// Generate builds a ledger whose dates are evenly spaced over the 365 days
// ending now. The same seed and clock always give the same ledger.
func (g *Generator) Generate() models.Ledger {
	src := rand.NewPCG(g.seed, g.seed)
	rng := rand.New(src)

	weights := make([]float64, len(profiles))
	for i, p := range profiles {
		weights[i] = p.weight
	}
	picker := distuv.NewCategorical(weights, src)

	end := g.now()
	start := end.Add(-window)
	step := time.Duration(0)
	if g.count > 1 {
		step = window / time.Duration(g.count-1)
	}

	txs := make([]models.Transaction, g.count)
	for i := range txs {
		p := profiles[int(picker.Rand())]
		amount := distuv.Normal{Mu: p.mean, Sigma: p.stdDev, Src: src}.Rand()
		amount = math.Min(math.Max(amount, p.min), p.max)

		txs[i] = models.Transaction{
			Date:        dateutils.Day(start.Add(time.Duration(i) * step)),
			Amount:      decimal.NewFromFloat(amount).Round(2),
			Description: p.descriptions[rng.IntN(len(p.descriptions))],
			Category:    p.category,
			Account:     Account,
			Type:        models.DefaultType,
		}
	}

	return models.NewLedger(txs, models.Provenance{
		Source:    Source,
		Synthetic: true,
		LoadedAt:  end,
	})
}
