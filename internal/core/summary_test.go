package core

import (
	"math"
	"testing"
)

func txn(id int64, desc string, cents int64, d Date, cat string) Transaction {
	return Transaction{ID: id, Description: desc, Amount: Money{Cents: cents}, Date: d, Category: cat}
}

func TestTodayTotal(t *testing.T) {
	today := NewDate(2025, 6, 15)
	list := []Transaction{
		txn(1, "coffee", 350, today, CategoryFood),
		txn(2, "bus", 200, today, CategoryTransportation),
		txn(3, "old", 999, NewDate(2025, 6, 14), CategoryFood),
	}
	got := TodayTotal(list, today)
	if got.Total.Cents != 550 || got.Count != 2 {
		t.Fatalf("expected 550/2, got %d/%d", got.Total.Cents, got.Count)
	}

	empty := TodayTotal(nil, today)
	if empty.Total.Cents != 0 || empty.Count != 0 {
		t.Fatalf("empty ledger should yield zero total and count")
	}
}

func TestMonthOverview(t *testing.T) {
	list := []Transaction{
		txn(1, "groceries", 10000, NewDate(2025, 6, 1), CategoryFood),
		txn(2, "more groceries", 20000, NewDate(2025, 6, 10), CategoryFood),
		txn(3, "other month", 5000, NewDate(2025, 5, 31), CategoryFood),
	}
	got := MonthOverview(list, 2025, 6)
	if got.Total.Cents != 30000 || got.Count != 2 {
		t.Fatalf("expected total 30000 count 2, got %d/%d", got.Total.Cents, got.Count)
	}
	if len(got.TopCategories) != 1 || got.TopCategories[0].Name != CategoryFood ||
		got.TopCategories[0].Amount.Cents != 30000 {
		t.Fatalf("expected top category food=30000, got %+v", got.TopCategories)
	}
}

func TestMonthOverviewTopThree(t *testing.T) {
	d := NewDate(2025, 6, 1)
	list := []Transaction{
		txn(1, "aa", 100, d, "a"),
		txn(2, "bb", 400, d, "b"),
		txn(3, "cc", 300, d, "c"),
		txn(4, "dd", 200, d, "d"),
		txn(5, "ee", 300, d, "e"), // ties c; c appeared first
	}
	got := MonthOverview(list, 2025, 6)
	if len(got.TopCategories) != 3 {
		t.Fatalf("expected 3 top categories, got %d", len(got.TopCategories))
	}
	names := []string{got.TopCategories[0].Name, got.TopCategories[1].Name, got.TopCategories[2].Name}
	want := []string{"b", "c", "e"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}

func TestBudgetStatus(t *testing.T) {
	month := NewDate(2025, 6, 1)
	cases := []struct {
		name       string
		spentCents int64
		budget     int64
		remaining  int64
		percent    float64
		severity   string
	}{
		{"over", 120000, 100000, -20000, 100, SeverityOver},
		{"exact", 100000, 100000, 0, 100, SeverityOver},
		{"warning", 80000, 100000, 20000, 80, SeverityWarning},
		{"normal", 50000, 100000, 50000, 50, SeverityNormal},
		{"no budget", 50000, 0, -50000, 0, SeverityNormal},
	}
	for _, tc := range cases {
		var list []Transaction
		if tc.spentCents > 0 {
			list = append(list, txn(1, "spend", tc.spentCents, month, CategoryOther))
		}
		got := BudgetStatus(list, Money{Cents: tc.budget}, 2025, 6)
		if got.Remaining.Cents != tc.remaining {
			t.Fatalf("%s: remaining %d, want %d", tc.name, got.Remaining.Cents, tc.remaining)
		}
		if math.Abs(got.PercentUsed-tc.percent) > 0.001 {
			t.Fatalf("%s: percent %.2f, want %.2f", tc.name, got.PercentUsed, tc.percent)
		}
		if got.Severity != tc.severity {
			t.Fatalf("%s: severity %q, want %q", tc.name, got.Severity, tc.severity)
		}
	}
}

func TestRecentN(t *testing.T) {
	list := []Transaction{
		txn(10, "a", 100, NewDate(2025, 6, 1), CategoryFood),
		txn(11, "b", 100, NewDate(2025, 6, 3), CategoryFood),
		txn(12, "c", 100, NewDate(2025, 6, 3), CategoryFood), // same day, later ID
		txn(13, "d", 100, NewDate(2025, 6, 2), CategoryFood),
	}
	got := RecentN(list, 5)
	if len(got) != 4 {
		t.Fatalf("expected min(5, len) = 4 items, got %d", len(got))
	}
	wantIDs := []int64{12, 11, 13, 10}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Fatalf("position %d: expected ID %d, got %d", i, want, got[i].ID)
		}
	}

	if got := RecentN(list, 2); len(got) != 2 || got[0].ID != 12 {
		t.Fatalf("expected truncation to 2 newest, got %+v", got)
	}
	if got := RecentN(list, 0); got != nil {
		t.Fatalf("n<=0 should yield nil")
	}
	// input order untouched
	if list[0].ID != 10 {
		t.Fatalf("input slice was reordered")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	d := NewDate(2025, 6, 1)
	list := []Transaction{
		txn(1, "a", 100, d, "a"),
		txn(2, "b", 100, d, "b"),
		txn(3, "c", 100, d, "c"),
	}
	got := CategoryBreakdown(list)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	var sum float64
	for _, e := range got {
		sum += e.Percent
	}
	// one-decimal rounding leaves the sum within a whisker of 100
	if math.Abs(sum-100) > 0.5 {
		t.Fatalf("percents sum to %.2f, expected roughly 100", sum)
	}
}

func TestCategoryBreakdownEmpty(t *testing.T) {
	if got := CategoryBreakdown(nil); got != nil {
		t.Fatalf("empty ledger should yield nil, got %+v", got)
	}
}

func TestCategoryBreakdownOrdering(t *testing.T) {
	d := NewDate(2025, 6, 1)
	list := []Transaction{
		txn(1, "a", 100, d, "small"),
		txn(2, "b", 900, d, "big"),
	}
	got := CategoryBreakdown(list)
	if got[0].Category != "big" || got[0].Percent != 90.0 {
		t.Fatalf("expected big=90.0 first, got %+v", got)
	}
	if got[1].Category != "small" || got[1].Percent != 10.0 {
		t.Fatalf("expected small=10.0 second, got %+v", got)
	}
}

func TestFilterBySearchTerm(t *testing.T) {
	d := NewDate(2025, 6, 1)
	list := []Transaction{
		txn(1, "Foobar lunch", 100, d, CategoryFood),
		txn(2, "bus ticket", 100, d, CategoryTransportation),
		txn(3, "cinema", 100, d, "foo-fun"),
	}
	got := FilterBySearchTerm(list, "foo")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected matches on description and category, got %+v", got)
	}
	if got := FilterBySearchTerm(list, "  "); len(got) != len(list) {
		t.Fatalf("blank term should match everything")
	}
	if got := FilterBySearchTerm(list, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFilterByExactDate(t *testing.T) {
	target := NewDate(2025, 6, 15)
	list := []Transaction{
		txn(1, "a", 100, target, CategoryFood),
		txn(2, "b", 250, target, CategoryFood),
		txn(3, "c", 999, NewDate(2025, 6, 16), CategoryFood),
	}
	got := FilterByExactDate(list, target)
	if got.Count != 2 || got.Total.Cents != 350 || len(got.Items) != 2 {
		t.Fatalf("expected 2 items totalling 350, got %+v", got)
	}
	miss := FilterByExactDate(list, NewDate(2030, 1, 1))
	if miss.Count != 0 || len(miss.Items) != 0 {
		t.Fatalf("expected empty result, got %+v", miss)
	}
}
