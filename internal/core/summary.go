package core

import (
	"math"
	"sort"
	"strings"
)

// Budget severity tiers, presentation-only. Nothing blocks spending past
// the budget.
const (
	SeverityNormal  = "normal"  // percent used < 75
	SeverityWarning = "warning" // 75 <= percent used < 100
	SeverityOver    = "over"    // percent used >= 100
)

const topCategoryCount = 3

type (
	// CategoryAmount is an amount aggregated under one category name.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount_cents"`
	}

	// DayTotal is the sum and count of transactions on one exact date.
	DayTotal struct {
		Date  Date  `json:"date"`
		Total Money `json:"total_cents"`
		Count int   `json:"count"`
	}

	// MonthSummary is a compact overview for a specific year+month.
	MonthSummary struct {
		Year          int              `json:"year"`
		Month         int              `json:"month"` // 1-12
		Total         Money            `json:"total_cents"`
		Count         int              `json:"count"`
		TopCategories []CategoryAmount `json:"top_categories"`
	}

	// BudgetReport compares monthly spend against a non-negative budget.
	BudgetReport struct {
		Year        int     `json:"year"`
		Month       int     `json:"month"`
		Budget      Money   `json:"budget_cents"`
		Spent       Money   `json:"spent_cents"`
		Remaining   Money   `json:"remaining_cents"`
		PercentUsed float64 `json:"percent_used"`
		Severity    string  `json:"severity"`
	}

	// BreakdownEntry feeds the chart renderer: it never sees raw rows.
	BreakdownEntry struct {
		Category string  `json:"category"`
		Amount   Money   `json:"amount_cents"`
		Percent  float64 `json:"percent"`
	}

	// DateMatches is the result of an exact-date filter.
	DateMatches struct {
		Date  Date          `json:"date"`
		Items []Transaction `json:"items"`
		Total Money         `json:"total_cents"`
		Count int           `json:"count"`
	}
)

// TodayTotal sums transactions dated exactly today. An empty ledger yields
// zero total and zero count.
func TodayTotal(list []Transaction, today Date) DayTotal {
	out := DayTotal{Date: today}
	for _, t := range list {
		if t.Date.Equal(today) {
			out.Total.Cents += t.Amount.Cents
			out.Count++
		}
	}
	return out
}

// MonthOverview sums transactions whose date falls in the given 1-indexed
// month, and reports the top three categories for that subset sorted by
// amount descending. Ties keep the order categories first appeared in the
// ledger.
func MonthOverview(list []Transaction, year, month int) MonthSummary {
	out := MonthSummary{Year: year, Month: month}
	byCat := map[string]int64{}
	var order []string
	for _, t := range list {
		if t.Date.Year != year || t.Date.Month != month {
			continue
		}
		out.Total.Cents += t.Amount.Cents
		out.Count++
		if _, seen := byCat[t.Category]; !seen {
			order = append(order, t.Category)
		}
		byCat[t.Category] += t.Amount.Cents
	}
	ranked := rankCategories(byCat, order)
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	out.TopCategories = ranked
	return out
}

// BudgetStatus computes remaining budget and clamped percent used for the
// given month. A zero budget reports zero percent used, never a division
// by zero.
func BudgetStatus(list []Transaction, budget Money, year, month int) BudgetReport {
	spent := MonthOverview(list, year, month).Total
	report := BudgetReport{
		Year:      year,
		Month:     month,
		Budget:    budget,
		Spent:     spent,
		Remaining: Money{Cents: budget.Cents - spent.Cents},
	}
	if budget.Cents > 0 {
		pct := float64(spent.Cents) / float64(budget.Cents) * 100.0
		report.PercentUsed = math.Min(math.Max(pct, 0), 100)
	}
	switch {
	case budget.Cents > 0 && spent.Cents >= budget.Cents:
		report.Severity = SeverityOver
	case report.PercentUsed >= 75:
		report.Severity = SeverityWarning
	default:
		report.Severity = SeverityNormal
	}
	return report
}

// RecentN returns up to n transactions ordered by date descending, ties
// broken by ID descending (most recently created wins). The input slice is
// never reordered.
func RecentN(list []Transaction, n int) []Transaction {
	if n <= 0 {
		return nil
	}
	sorted := make([]Transaction, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Date.Compare(sorted[j].Date); c != 0 {
			return c > 0
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CategoryBreakdown sums the whole ledger per category and computes each
// category's share of the grand total, rounded to one decimal place,
// sorted by amount descending. An empty ledger yields an empty slice, the
// "no data" signal for the chart.
func CategoryBreakdown(list []Transaction) []BreakdownEntry {
	byCat := map[string]int64{}
	var order []string
	var grand int64
	for _, t := range list {
		if _, seen := byCat[t.Category]; !seen {
			order = append(order, t.Category)
		}
		byCat[t.Category] += t.Amount.Cents
		grand += t.Amount.Cents
	}
	if grand == 0 {
		return nil
	}
	ranked := rankCategories(byCat, order)
	out := make([]BreakdownEntry, 0, len(ranked))
	for _, ca := range ranked {
		pct := float64(ca.Amount.Cents) / float64(grand) * 100.0
		out = append(out, BreakdownEntry{
			Category: ca.Name,
			Amount:   ca.Amount,
			Percent:  math.Round(pct*10) / 10,
		})
	}
	return out
}

// FilterBySearchTerm keeps transactions whose description or category
// contains term, case-insensitively. An empty term matches everything.
func FilterBySearchTerm(list []Transaction, term string) []Transaction {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]Transaction, len(list))
		copy(out, list)
		return out
	}
	var out []Transaction
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Description), term) ||
			strings.Contains(strings.ToLower(t.Category), term) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByExactDate keeps transactions dated exactly date and reports the
// matching sum and count alongside.
func FilterByExactDate(list []Transaction, date Date) DateMatches {
	out := DateMatches{Date: date}
	for _, t := range list {
		if t.Date.Equal(date) {
			out.Items = append(out.Items, t)
			out.Total.Cents += t.Amount.Cents
			out.Count++
		}
	}
	return out
}

// rankCategories orders category sums descending by amount; equal amounts
// keep first-seen order. order must list every key of byCat.
func rankCategories(byCat map[string]int64, order []string) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: byCat[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}
