package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in  string
		out Date
		ok  bool
	}{
		{"2025-01-02", NewDate(2025, 1, 2), true},
		{"2025-12-31", NewDate(2025, 12, 31), true},
		{" 2025-06-15 ", NewDate(2025, 6, 15), true},
		{"2025-02-30", Date{}, false},
		{"2025-13-01", Date{}, false},
		{"01-02-2025", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.out) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2025, 3, 7).String(); got != "2025-03-07" {
		t.Fatalf("expected zero-padded ISO form, got %q", got)
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{}, false},
		{NewDate(2025, 0, 1), false},
		{NewDate(2025, 13, 1), false},
		{NewDate(2025, 1, 0), false},
		{NewDate(2025, 1, 32), false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateCompare(t *testing.T) {
	cases := []struct {
		a, b Date
		want int
	}{
		{NewDate(2025, 1, 1), NewDate(2025, 1, 1), 0},
		{NewDate(2024, 12, 31), NewDate(2025, 1, 1), -1},
		{NewDate(2025, 2, 1), NewDate(2025, 1, 31), 1},
		{NewDate(2025, 1, 2), NewDate(2025, 1, 1), 1},
	}
	for i, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Fatalf("case %d: Compare(%v, %v) = %d, want %d", i, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	if got := Today(now); !got.Equal(NewDate(2025, 6, 15)) {
		t.Fatalf("expected 2025-06-15, got %v", got)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 1, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-02"` {
		t.Fatalf("expected ISO string, got %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2025-01-02"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Equal(NewDate(2025, 1, 2)) {
		t.Fatalf("roundtrip mismatch: %v", d)
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -50}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          1,
		Description: "coffee",
		Amount:      Money{Cents: 350},
		Date:        NewDate(2025, 1, 1),
		Category:    CategoryFood,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := make([]byte, maxDescriptionLen+1)
	for i := range long {
		long[i] = 'x'
	}

	bads := []Transaction{
		{Description: "a", Amount: Money{Cents: 1}, Date: Date{}},                              // zero date
		{Description: "", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},                  // empty
		{Description: "  ", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},                // whitespace only
		{Description: "a", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},                 // too short
		{Description: string(long), Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},        // too long
		{Description: "ok here", Amount: Money{Cents: 0}, Date: NewDate(2025, 1, 1)},           // zero amount
		{Description: "ok here", Amount: Money{Cents: -10}, Date: NewDate(2025, 1, 1)},         // negative amount
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"food", CategoryFood},
		{" food ", CategoryFood},
		{"", CategoryOther},
		{"   ", CategoryOther},
		{"groceries", "groceries"}, // unknown labels pass through unchanged
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.out {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) == 0 || cats[0] != CategoryFood || cats[len(cats)-1] != CategoryOther {
		t.Fatalf("unexpected category order: %v", cats)
	}
	for _, c := range cats {
		if !KnownCategory(c) {
			t.Fatalf("%q should be known", c)
		}
	}
	if KnownCategory("made-up") {
		t.Fatalf("unexpected known category")
	}
}
