package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{".50", 50, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false}, // overflow
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseBudgetCents(t *testing.T) {
	got, err := ParseBudgetCents("0")
	if err != nil || got != 0 {
		t.Fatalf("zero budget should parse, got %d (err=%v)", got, err)
	}
	got, err = ParseBudgetCents("1000")
	if err != nil || got != 100000 {
		t.Fatalf("expected 100000, got %d (err=%v)", got, err)
	}
	if _, err := ParseBudgetCents("-1"); err == nil {
		t.Fatalf("expected error for negative budget")
	}
}

func TestMoneyDecimalString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{1234, "12.34"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).DecimalString(); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil || string(b) != "1234" {
		t.Fatalf("expected bare integer, got %s (err=%v)", b, err)
	}
	var m Money
	if err := json.Unmarshal([]byte("567"), &m); err != nil || m.Cents != 567 {
		t.Fatalf("expected 567 cents, got %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"12.34"`), &m); err == nil {
		t.Fatalf("expected error for decimal string")
	}
}
