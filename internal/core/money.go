// Package core holds the domain model and the financial aggregation
// rules shared by every view of the dashboard. All currency arithmetic
// is done on integer cents; percentages are float64.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency amount in integer cents.
type Money struct {
	Cents int64
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Euros returns the euro value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON encodes the amount as a bare integer of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

// UnmarshalJSON accepts an integer of cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return fmt.Errorf("money must be integer cents: %w", err)
	}
	m.Cents = cents
	return nil
}

// String formats the amount as €X,YY for logs and plain-text output.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-€" + s
	}
	return "€" + s
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma
// (12,34) separators are accepted. Negative values are rejected; zero
// is allowed (cost categories default to zero).
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first two fractional digits, half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// CoerceCents is the lenient form used on dashboard inputs: blank or
// unparseable strings become zero instead of an error, so a bad form
// field degrades a total rather than failing a render.
func CoerceCents(s string) int64 {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return 0
	}
	return cents
}
