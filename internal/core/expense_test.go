package core

import (
	"testing"
	"time"
)

func TestSummarizeExpenses(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	expenses := []Expense{
		{Name: "hosting", Amount: Money{Cents: 2000}, Date: NewDate(2025, 3, 1), Frequency: FrequencyMonthly, Status: ExpenseKeep},
		{Name: "render farm", Amount: Money{Cents: 5000}, Date: NewDate(2025, 3, 10), Frequency: FrequencyMonthly, Status: ExpenseKeep},
		{Name: "old sub", Amount: Money{Cents: 9000}, Date: NewDate(2025, 2, 1), Frequency: FrequencyMonthly, Status: ExpenseKeep}, // previous month
		{Name: "insurance", Amount: Money{Cents: 120000}, Date: NewDate(2025, 1, 1), Frequency: FrequencyYearly, Status: ExpenseKeep},
		{Name: "cancelled tool", Amount: Money{Cents: 4000}, Date: NewDate(2025, 3, 1), Frequency: FrequencyMonthly, Status: ExpenseCancel},
		{Name: "one-off rig", Amount: Money{Cents: 300000}, Date: NewDate(2025, 3, 5), Frequency: FrequencyOnceOff, Status: ExpenseKeep},
	}

	summary := SummarizeExpenses(expenses, now)
	if summary.MonthlyTotal.Cents != 7000 {
		t.Fatalf("MonthlyTotal = %d, want 7000", summary.MonthlyTotal.Cents)
	}
	if summary.YearlyTotal.Cents != 120000 {
		t.Fatalf("YearlyTotal = %d, want 120000", summary.YearlyTotal.Cents)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Name:      "hosting",
		Amount:    Money{Cents: 2000},
		Date:      NewDate(2025, 3, 1),
		Frequency: FrequencyMonthly,
		Status:    ExpenseKeep,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Name: "", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Frequency: FrequencyMonthly, Status: ExpenseKeep},
		{Name: "x", Amount: Money{Cents: -1}, Date: NewDate(2025, 1, 1), Frequency: FrequencyMonthly, Status: ExpenseKeep},
		{Name: "x", Amount: Money{Cents: 1}, Frequency: FrequencyMonthly, Status: ExpenseKeep}, // zero date
		{Name: "x", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Frequency: "weekly", Status: ExpenseKeep},
		{Name: "x", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Frequency: FrequencyMonthly, Status: "maybe"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
