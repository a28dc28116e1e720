package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"0", 0, true},
		{"0.00", 0, true},
		{".5", 50, true},
		{"100", 10000, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		cents, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDecimalToCents(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q): expected error", tc.in)
		}
		if cents != tc.cents {
			t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, cents, tc.cents)
		}
	}
}

func TestCoerceCents(t *testing.T) {
	if got := CoerceCents("12.50"); got != 1250 {
		t.Fatalf("CoerceCents valid = %d, want 1250", got)
	}
	for _, bad := range []string{"", "garbage", "-5", "1.2.3"} {
		if got := CoerceCents(bad); got != 0 {
			t.Fatalf("CoerceCents(%q) = %d, want 0", bad, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 700}
	if got := a.Add(b); got.Cents != 1200 {
		t.Fatalf("Add = %d, want 1200", got.Cents)
	}
	diff := a.Sub(b)
	if diff.Cents != -200 || !diff.IsNegative() {
		t.Fatalf("Sub = %d (negative=%v), want -200 negative", diff.Cents, diff.IsNegative())
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "€12,34"},
		{-7000, "-€70,00"},
		{5, "€0,05"},
		{0, "€0,00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
