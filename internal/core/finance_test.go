package core

import "testing"

// scenarioProject builds the reference project: 10 internal hours at
// €43/hour (internal cost 430), external cost 100, everything else 0,
// sales price 1000, one payment billed 530.
func scenarioProject(t *testing.T, paidCents int64) Project {
	t.Helper()
	model, err := NewCostModel(Money{Cents: 4300})
	if err != nil {
		t.Fatalf("NewCostModel: %v", err)
	}
	return Project{
		ID:         1,
		Name:       "Showroom VR",
		Type:       TypeFixedFee,
		Status:     StatusActive,
		SalesPrice: Money{Cents: 100000},
		Costs: CostSheet{
			Internal: model.InternalCost(10),
			External: Money{Cents: 10000},
		},
		Payments: []PaymentRecord{
			{
				ProjectID:  1,
				Amount:     Money{Cents: 53000},
				PaidAmount: Money{Cents: paidCents},
				Category:   CategoryExternal,
				Type:       PaymentContractor,
			},
		},
	}
}

func TestFinancialsReferenceScenario(t *testing.T) {
	p := scenarioProject(t, 50000)

	fin := Financials(p)
	if fin.ExpectedCost.Cents != 53000 {
		t.Fatalf("ExpectedCost = %d, want 53000", fin.ExpectedCost.Cents)
	}
	if fin.TotalPaid.Cents != 50000 {
		t.Fatalf("TotalPaid = %d, want 50000", fin.TotalPaid.Cents)
	}
	if fin.RemainingCost.Cents != 3000 {
		t.Fatalf("RemainingCost = %d, want 3000", fin.RemainingCost.Cents)
	}
	if fin.OverBudget {
		t.Fatalf("500 paid against 530 expected must not be over budget")
	}

	profit := Profit(p)
	if profit.ExpectedGrossProfit.Cents != 47000 {
		t.Fatalf("ExpectedGrossProfit = %d, want 47000", profit.ExpectedGrossProfit.Cents)
	}
	if profit.ActualGrossProfit.Cents != 50000 {
		t.Fatalf("ActualGrossProfit = %d, want 50000", profit.ActualGrossProfit.Cents)
	}
	if profit.ExpectedMargin != 47 {
		t.Fatalf("ExpectedMargin = %v, want 47", profit.ExpectedMargin)
	}
	if profit.ActualMargin != 50 {
		t.Fatalf("ActualMargin = %v, want 50", profit.ActualMargin)
	}
	if profit.ProfitDifference.Cents != 3000 {
		t.Fatalf("ProfitDifference = %d, want 3000", profit.ProfitDifference.Cents)
	}
	if profit.MarginDifference != 3 {
		t.Fatalf("MarginDifference = %v, want 3", profit.MarginDifference)
	}
}

func TestFinancialsOverPaidScenario(t *testing.T) {
	p := scenarioProject(t, 60000)

	fin := Financials(p)
	if fin.RemainingCost.Cents != -7000 {
		t.Fatalf("RemainingCost = %d, want -7000 (exceeded by 70)", fin.RemainingCost.Cents)
	}
	if !fin.RemainingCost.IsNegative() {
		t.Fatalf("over-paid remaining cost must stay negative, not clamped")
	}
	if !fin.OverBudget {
		t.Fatalf("600 paid against 530 expected must be over budget")
	}

	profit := Profit(p)
	if profit.ActualGrossProfit.Cents != 40000 {
		t.Fatalf("ActualGrossProfit = %d, want 40000", profit.ActualGrossProfit.Cents)
	}
}

func TestMarginPercentZeroSalesPrice(t *testing.T) {
	if got := MarginPercent(Money{Cents: 47000}, Money{}); got != 0 {
		t.Fatalf("MarginPercent with zero sales = %v, want exactly 0", got)
	}

	p := scenarioProject(t, 50000)
	p.SalesPrice = Money{}
	profit := Profit(p)
	if profit.ExpectedMargin != 0 || profit.ActualMargin != 0 {
		t.Fatalf("margins with zero sales = %v/%v, want 0/0", profit.ExpectedMargin, profit.ActualMargin)
	}
}

func TestProfitDifferenceHoldsForNegativeProfits(t *testing.T) {
	p := scenarioProject(t, 50000)
	p.SalesPrice = Money{Cents: 20000} // costs exceed revenue

	profit := Profit(p)
	wantExpected := int64(20000 - 53000)
	wantActual := int64(20000 - 50000)
	if profit.ExpectedGrossProfit.Cents != wantExpected {
		t.Fatalf("ExpectedGrossProfit = %d, want %d", profit.ExpectedGrossProfit.Cents, wantExpected)
	}
	if profit.ActualGrossProfit.Cents != wantActual {
		t.Fatalf("ActualGrossProfit = %d, want %d", profit.ActualGrossProfit.Cents, wantActual)
	}
	if profit.ProfitDifference.Cents != wantActual-wantExpected {
		t.Fatalf("ProfitDifference = %d, want %d", profit.ProfitDifference.Cents, wantActual-wantExpected)
	}
}

func TestFinancialsCategoryBreakdown(t *testing.T) {
	p := scenarioProject(t, 50000)
	// Tag a second payment against design with no design budget.
	p.Payments = append(p.Payments, PaymentRecord{
		ProjectID:  1,
		Amount:     Money{Cents: 500},
		PaidAmount: Money{Cents: 500},
		Category:   CategoryDesign,
		Type:       PaymentContractor,
	})

	fin := Financials(p)
	if len(fin.Categories) != len(CostCategories) {
		t.Fatalf("breakdown rows = %d, want %d", len(fin.Categories), len(CostCategories))
	}
	for _, row := range fin.Categories {
		switch row.Category {
		case CategoryDesign:
			if !row.OverBudget {
				t.Fatalf("design paid with zero budget must be over budget")
			}
		case CategoryExternal:
			if !row.OverBudget {
				t.Fatalf("external paid 500 against 100 budget must be over budget")
			}
		case CategoryInternal:
			if row.OverBudget {
				t.Fatalf("internal with no payments must not be over budget")
			}
		}
	}
}
