package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"Expenses", "2025 Expenses"},
		{"2024 Expenses", "2024 Expenses"},
		{" Expenses ", "2025 Expenses"},
		{"", ""},
		{"3001 Expenses", "2025 3001 Expenses"}, // implausible year keeps the prefix
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, 2025); got != tc.want {
			t.Fatalf("yearPrefixedName(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
