package insights

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/dateutils"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

var stats metrics.Stats

// DefaultRules returns the built-in rules in report order.
func DefaultRules() []Rule {
	return []Rule{
		{Section: SectionSpending, Name: "totals", Apply: totalsRule},
		{Section: SectionSpending, Name: "skew", Apply: skewRule},
		{Section: SectionSpending, Name: "monthly_trend", Apply: monthlyTrendRule},
		{Section: SectionFrequency, Name: "transactions_per_day", Apply: frequencyRule},
		{Section: SectionCategories, Name: "concentration", Apply: concentrationRule},
		{Section: SectionCategories, Name: "consistency", Apply: consistencyRule},
		{Section: SectionCategories, Name: "category_trend", Apply: categoryTrendRule},
		{Section: SectionTemporal, Name: "weekday", Apply: weekdayRule},
		{Section: SectionTemporal, Name: "weekend", Apply: weekendRule},
		{Section: SectionTemporal, Name: "calendar_month", Apply: calendarMonthRule},
		{Section: SectionAnomalies, Name: "z_score", Apply: zScoreRule},
		{Section: SectionAnomalies, Name: "iqr", Apply: iqrRule},
		{Section: SectionAnomalies, Name: "spikes", Apply: spikeRule},
		{Section: SectionAnomalies, Name: "dormant_days", Apply: dormantRule},
		{Section: SectionRecurring, Name: "repeated_charges", Apply: recurringRule},
		{Section: SectionSavings, Name: "small_purchases", Apply: smallPurchasesRule},
		{Section: SectionSavings, Name: "category_thresholds", Apply: categoryThresholdRule},
		{Section: SectionSavings, Name: "seasonal_peaks", Apply: seasonalPeakRule},
		{Section: SectionHealth, Name: "monthly_stability", Apply: stabilityRule},
		{Section: SectionHealth, Name: "diversity", Apply: diversityRule},
		{Section: SectionHealth, Name: "transaction_sizes", Apply: sizeRule},
		{Section: SectionHealth, Name: "velocity", Apply: velocityRule},
		{Section: SectionRecommendations, Name: "personal", Apply: recommendationRule},
	}
}

func amounts(l models.Ledger) []float64 {
	out := make([]float64, 0, l.Len())
	for _, tx := range l.All() {
		out = append(out, tx.AmountFloat())
	}
	return out
}

func monthlyTotals(v Views) []float64 {
	out := make([]float64, len(v.Monthly))
	for i, m := range v.Monthly {
		out[i] = m.Total
	}
	return out
}

func monthCount(v Views) int {
	return max(len(v.Monthly), 1)
}

func totalsRule(in Input) []string {
	o := in.Views.Overview
	median := stats.Quantile(amounts(in.Ledger), 0.5)
	return []string{
		fmt.Sprintf("You spent %s across %d transactions.", in.Money.Money(o.Total), o.Count),
		fmt.Sprintf("A typical transaction is %s on average, with a median of %s.",
			in.Money.Money(o.Mean), in.Money.Money(median)),
	}
}

func skewRule(in Input) []string {
	median := stats.Quantile(amounts(in.Ledger), 0.5)
	if in.Views.Overview.Mean > median*1.5 {
		return []string{"A handful of large purchases pull your average well above the typical transaction."}
	}
	return nil
}

func monthlyTrendRule(in Input) []string {
	totals := monthlyTotals(in.Views)
	if len(totals) < 2 {
		return nil
	}
	switch {
	case sort.Float64sAreSorted(totals):
		return []string{"Monthly spending has gone up every month."}
	case isNonIncreasing(totals):
		return []string{"Monthly spending has gone down every month."}
	}
	sd := stats.StdDev(totals)
	if sd.IsDefined() && sd.Value > stats.Mean(totals)*0.3 {
		return []string{"Monthly spending swings widely from one month to the next."}
	}
	return nil
}

func isNonIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1] {
			return false
		}
	}
	return true
}

func frequencyRule(in Input) []string {
	span := in.Views.Overview.DaySpan
	if span <= 0 {
		return nil
	}
	perDay := float64(in.Ledger.Len()) / float64(span)
	return []string{fmt.Sprintf("You make about %.1f transactions per day over %d days.", perDay, span)}
}

func concentrationRule(in Input) []string {
	cats := in.Views.Categories
	if len(cats) == 0 || !cats[0].Percentage.IsDefined() {
		return nil
	}
	out := []string{fmt.Sprintf("'%s' is your largest category at %.1f%% of spending.",
		cats[0].Category, cats[0].Percentage.Value)}

	var major []string
	for _, c := range cats {
		if c.Percentage.IsDefined() && c.Percentage.Value > 10 {
			major = append(major, c.Category)
		}
	}
	if len(major) > 1 {
		out = append(out, fmt.Sprintf("Most of your money goes to %s.", strings.Join(major, ", ")))
	}
	return out
}

func topCategories(v Views, n int) []metrics.CategoryRow {
	if len(v.Categories) < n {
		return v.Categories
	}
	return v.Categories[:n]
}

func consistencyRule(in Input) []string {
	var out []string
	for _, c := range topCategories(in.Views, 3) {
		if !c.StdDev.IsDefined() || c.Mean == 0 {
			continue
		}
		cv := c.StdDev.Value / c.Mean
		switch {
		case cv < 0.5:
			out = append(out, fmt.Sprintf("Your '%s' purchases are very consistent in size.", c.Category))
		case cv > 1.5:
			out = append(out, fmt.Sprintf("Your '%s' purchases vary a lot in size.", c.Category))
		}
	}
	return out
}

func categoryTrendRule(in Input) []string {
	if len(in.Views.Monthly) < 2 {
		return nil
	}
	var out []string
	for _, c := range topCategories(in.Views, 3) {
		monthly := metrics.MonthlySummary(in.Ledger.Filter(models.Filter{Categories: []string{c.Category}}))
		if len(monthly) < 2 {
			continue
		}
		totals := make([]float64, len(monthly))
		for i, m := range monthly {
			totals[i] = m.Total
		}
		slope := stats.Slope(totals)
		switch {
		case slope > 0:
			out = append(out, fmt.Sprintf("'%s' spending is trending up.", c.Category))
		case slope < -10:
			out = append(out, fmt.Sprintf("'%s' spending is trending down.", c.Category))
		}
	}
	return out
}

func weekdayRule(in Input) []string {
	w := in.Views.Weekly
	if len(w) == 0 {
		return nil
	}
	most, least := w[0], w[0]
	for _, d := range w[1:] {
		if d.Total > most.Total {
			most = d
		}
		if d.Total < least.Total {
			least = d
		}
	}
	return []string{fmt.Sprintf("You spend the most on %ss and the least on %ss.", most.Day, least.Day)}
}

func weekendRule(in Input) []string {
	weekendDays := make(map[time.Weekday]float64)
	weekdayDays := make(map[time.Weekday]float64)
	for _, tx := range in.Ledger.All() {
		if dateutils.IsWeekend(tx.Date) {
			weekendDays[tx.Date.Weekday()] += tx.AmountFloat()
		} else {
			weekdayDays[tx.Date.Weekday()] += tx.AmountFloat()
		}
	}
	weekend := slices.Collect(maps.Values(weekendDays))
	weekday := slices.Collect(maps.Values(weekdayDays))
	if len(weekend) == 0 || len(weekday) == 0 {
		return nil
	}
	we, wd := stats.Mean(weekend), stats.Mean(weekday)
	switch {
	case we > wd*1.2:
		return []string{"Weekends cost you noticeably more than weekdays."}
	case wd > we*1.2:
		return []string{"You spend more on weekdays than on weekends."}
	}
	return nil
}

// byCalendarMonth groups amounts by month of year.
func byCalendarMonth(l models.Ledger) map[time.Month][]float64 {
	out := make(map[time.Month][]float64)
	for _, tx := range l.All() {
		out[tx.Date.Month()] = append(out[tx.Date.Month()], tx.AmountFloat())
	}
	return out
}

func sortedMonths(m map[time.Month][]float64) []time.Month {
	months := make([]time.Month, 0, len(m))
	for k := range m {
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

func calendarMonthRule(in Input) []string {
	if len(in.Views.Monthly) < 6 {
		return nil
	}
	groups := byCalendarMonth(in.Ledger)
	months := sortedMonths(groups)
	peak, low := months[0], months[0]
	for _, m := range months[1:] {
		if stats.Mean(groups[m]) > stats.Mean(groups[peak]) {
			peak = m
		}
		if stats.Mean(groups[m]) < stats.Mean(groups[low]) {
			low = m
		}
	}
	return []string{fmt.Sprintf("Purchases tend to be largest in %s and smallest in %s.", peak, low)}
}

func zScoreRule(in Input) []string {
	n := len(in.Views.Anomalies)
	if n == 0 {
		return nil
	}
	top := in.Views.Anomalies[0]
	return []string{fmt.Sprintf("%d transactions sit more than two standard deviations from your average; the most extreme is %s at %s.",
		n, top.Description, in.Money.Money(top.Amount))}
}

func iqrRule(in Input) []string {
	xs := amounts(in.Ledger)
	q1, q3 := stats.Quantile(xs, 0.25), stats.Quantile(xs, 0.75)
	threshold := q3 + 1.5*(q3-q1)

	counts := make(map[string]int)
	n := 0
	for _, tx := range in.Ledger.All() {
		if tx.AmountFloat() > threshold {
			n++
			counts[tx.Category]++
		}
	}
	if n == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("%d transactions are unusually large (above %s).", n, in.Money.Money(threshold))}
	if n > 1 {
		out = append(out, fmt.Sprintf("Most of the large transactions fall under '%s'.", modeOf(counts)))
	}
	return out
}

// modeOf returns the most frequent key, alphabetically first among ties.
func modeOf(counts map[string]int) string {
	best, bestN := "", -1
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

func spikeRule(in Input) []string {
	daily := in.Views.Daily
	if len(daily) <= 7 {
		return nil
	}
	spikes := 0
	var window float64
	for i, d := range daily {
		window += d.Total
		if i >= 7 {
			window -= daily[i-7].Total
		}
		if i < 6 {
			continue
		}
		if d.Total > 2*(window/7) {
			spikes++
		}
	}
	if spikes == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%d days had spending above twice the trailing weekly average.", spikes)}
}

func dormantRule(in Input) []string {
	calendarDays := in.Views.Overview.DaySpan + 1
	idle := calendarDays - len(in.Views.Daily)
	if float64(idle) <= float64(calendarDays)*0.3 {
		return nil
	}
	return []string{fmt.Sprintf("No spending was recorded on %d days, %.1f%% of the period.",
		idle, float64(idle)/float64(calendarDays)*100)}
}

func recurringRule(in Input) []string {
	type key struct {
		description string
		fixed       string
	}
	counts := make(map[key]int)
	values := make(map[key]decimal.Decimal)
	for _, tx := range in.Ledger.All() {
		k := key{tx.Description, tx.Amount.StringFixed(2)}
		counts[k]++
		values[k] = tx.Amount
	}

	type charge struct {
		key
		n      int
		amount decimal.Decimal
	}
	var recurring []charge
	for k, n := range counts {
		if n >= 3 {
			recurring = append(recurring, charge{k, n, values[k]})
		}
	}
	if len(recurring) == 0 {
		return nil
	}
	sort.Slice(recurring, func(i, j int) bool {
		if recurring[i].n != recurring[j].n {
			return recurring[i].n > recurring[j].n
		}
		if recurring[i].description != recurring[j].description {
			return recurring[i].description < recurring[j].description
		}
		return recurring[i].fixed < recurring[j].fixed
	})

	out := []string{fmt.Sprintf("%d charges repeat at least three times with the same amount; check for subscriptions you no longer use.", len(recurring))}
	for _, c := range recurring[:min(len(recurring), 3)] {
		out = append(out, fmt.Sprintf("%s: %d charges of %s.", c.description, c.n, in.Money.Decimal(c.amount)))
	}
	return out
}

func smallPurchasesRule(in Input) []string {
	type acc struct {
		total float64
		n     int
	}
	small := make(map[string]*acc)
	for _, tx := range in.Ledger.All() {
		if tx.AmountFloat() >= 20 {
			continue
		}
		if small[tx.Category] == nil {
			small[tx.Category] = &acc{}
		}
		small[tx.Category].total += tx.AmountFloat()
		small[tx.Category].n++
	}

	names := make([]string, 0, len(small))
	for name := range small {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		a := small[name]
		if a.n >= 10 && a.total > 200 {
			out = append(out, fmt.Sprintf("Small '%s' purchases add up to %s a month; buying in bulk or skipping a few could help.",
				name, in.Money.Money(a.total/float64(monthCount(in.Views)))))
		}
	}
	return out
}

// monthlyThresholds are the average monthly totals above which a top
// category earns a targeted tip.
var monthlyThresholds = map[string]struct {
	limit float64
	tip   string
}{
	"Food":           {300, "Planning meals and cooking at home would trim your food budget."},
	"Shopping":       {400, "Waiting a few days before non-essential purchases curbs impulse buying."},
	"Transportation": {200, "Carpooling, transit or combining errands would lower transportation costs."},
	"Utilities":      {200, "Review your utility plans and look for energy savings."},
	"Grocery":        {400, "Store brands, coupons and a shopping list would lower grocery bills."},
	"Bank":           {100, "Bank fees are high; compare accounts with lower fees."},
}

func categoryThresholdRule(in Input) []string {
	var out []string
	for _, c := range topCategories(in.Views, 3) {
		rule, ok := monthlyThresholds[c.Category]
		if ok && c.Total/float64(monthCount(in.Views)) > rule.limit {
			out = append(out, rule.tip)
		}
	}
	return out
}

func seasonalPeakRule(in Input) []string {
	if len(in.Views.Monthly) < 6 {
		return nil
	}
	groups := byCalendarMonth(in.Ledger)
	months := sortedMonths(groups)
	totals := make([]float64, len(months))
	for i, m := range months {
		for _, v := range groups[m] {
			totals[i] += v
		}
	}
	avg := stats.Mean(totals)
	var peaks []string
	for i, m := range months {
		if totals[i] > avg*1.3 {
			peaks = append(peaks, m.String())
		}
	}
	if len(peaks) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Spending peaks in %s; set money aside ahead of those months.", strings.Join(peaks, ", "))}
}

func stabilityRule(in Input) []string {
	totals := monthlyTotals(in.Views)
	if len(totals) < 2 {
		return nil
	}
	sd, avg := stats.StdDev(totals), stats.Mean(totals)
	if !sd.IsDefined() || avg == 0 {
		return nil
	}
	cv := sd.Value / avg
	switch {
	case cv < 0.2:
		return []string{"Month-to-month spending is very steady, which makes budgeting easy."}
	case cv > 0.5:
		return []string{"Monthly spending is uneven; a fixed monthly budget would smooth it out."}
	}
	return nil
}

func diversityRule(in Input) []string {
	n := len(in.Views.Categories)
	switch {
	case n < 4:
		return []string{"Your spending is concentrated in a few categories."}
	case n > 10:
		return []string{"Your spending spreads over many categories; make sure each is tracked."}
	}
	return nil
}

func sizeRule(in Input) []string {
	xs := amounts(in.Ledger)
	if len(xs) == 0 {
		return nil
	}
	var small, large int
	for _, x := range xs {
		if x < 25 {
			small++
		}
		if x > 200 {
			large++
		}
	}
	var out []string
	if pct := float64(small) / float64(len(xs)) * 100; pct > 60 {
		out = append(out, fmt.Sprintf("%.0f%% of your transactions are under %s; small purchases add up.", pct, in.Money.Whole(25)))
	}
	if pct := float64(large) / float64(len(xs)) * 100; pct > 20 {
		out = append(out, fmt.Sprintf("%.0f%% of your transactions are over %s; check that large purchases fit your plan.", pct, in.Money.Whole(200)))
	}
	return out
}

func velocityRule(in Input) []string {
	totals := monthlyTotals(in.Views)
	if len(totals) <= 2 {
		return nil
	}
	n := min(3, len(totals))
	recent := stats.Mean(totals[len(totals)-n:])
	early := stats.Mean(totals[:n])
	avg := stats.Mean(totals)
	switch diff := recent - early; {
	case diff > avg*0.2:
		return []string{"Spending has climbed noticeably in recent months."}
	case diff < -avg*0.2:
		return []string{"Spending has dropped noticeably in recent months. Keep it up."}
	}
	return nil
}

func recommendationRule(in Input) []string {
	total := in.Views.Overview.Total
	monthly := total / float64(monthCount(in.Views))
	return []string{
		fmt.Sprintf("With an average of %s spent per month, per-category budgets would help you stay on track.", in.Money.Money(monthly)),
		fmt.Sprintf("An emergency fund of %s would cover three months of expenses.", in.Money.Money(monthly*3)),
		fmt.Sprintf("Setting aside %s a month would save 10%% of your spending over a year.", in.Money.Money(total*0.1/12)),
	}
}
