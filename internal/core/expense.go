package core

import (
	"errors"
	"strings"
	"time"
)

// Frequency is how often a company expense recurs.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOnceOff Frequency = "once-off"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyYearly, FrequencyOnceOff:
		return true
	}
	return false
}

// ExpenseStatus marks whether an expense is kept or slated for
// cancellation. Cancelled expenses drop out of the summary totals.
type ExpenseStatus string

const (
	ExpenseKeep   ExpenseStatus = "keep"
	ExpenseCancel ExpenseStatus = "cancel"
)

func (s ExpenseStatus) Valid() bool {
	return s == ExpenseKeep || s == ExpenseCancel
}

// Expense is a recurring or one-off company cost, the simpler sibling
// of the project model.
type Expense struct {
	ID        int64
	Name      string
	Amount    Money
	Client    string
	Type      string
	Date      Date
	Frequency Frequency
	Status    ExpenseStatus
	UsedFor   string
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Frequency.Valid() {
		return errors.New("invalid frequency")
	}
	if !e.Status.Valid() {
		return errors.New("invalid expense status")
	}
	return nil
}

// ExpenseSummary holds the headline totals for the expense dashboard.
type ExpenseSummary struct {
	MonthlyTotal Money `json:"monthly_total"`
	YearlyTotal  Money `json:"yearly_total"`
}

// SummarizeExpenses computes the monthly and yearly totals as of now.
// Monthly counts monthly-frequency expenses dated in the current month;
// yearly counts yearly-frequency expenses dated in the current year.
// Expenses marked cancel are excluded from both.
func SummarizeExpenses(expenses []Expense, now time.Time) ExpenseSummary {
	var summary ExpenseSummary
	for _, e := range expenses {
		if e.Status == ExpenseCancel {
			continue
		}
		switch e.Frequency {
		case FrequencyMonthly:
			if e.Date.Year() == now.Year() && e.Date.Month() == now.Month() {
				summary.MonthlyTotal = summary.MonthlyTotal.Add(e.Amount)
			}
		case FrequencyYearly:
			if e.Date.Year() == now.Year() {
				summary.YearlyTotal = summary.YearlyTotal.Add(e.Amount)
			}
		}
	}
	return summary
}
