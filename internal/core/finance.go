package core

// CategoryBreakdown compares one cost line's budget against what has
// actually been paid toward it.
type CategoryBreakdown struct {
	Category   CostCategory `json:"category"`
	Budget     Money        `json:"budget"`
	Billed     Money        `json:"billed"`
	Paid       Money        `json:"paid"`
	OverBudget bool         `json:"over_budget"`
}

// ProjectFinancials is the aggregation-engine output for one project.
// RemainingCost and Outstanding are two separate quantities: remaining
// compares paid against the cost model, while outstanding compares
// paid against what was billed.
type ProjectFinancials struct {
	ExpectedCost  Money `json:"expected_cost"`
	TotalBilled   Money `json:"total_billed"`
	TotalPaid     Money `json:"total_paid"`
	RemainingCost Money `json:"remaining_cost"`
	Outstanding   Money `json:"outstanding"`
	// OverBudget is the aggregate flag: paid strictly exceeds the
	// expected cost. RemainingCost is negative exactly then.
	OverBudget bool                `json:"over_budget"`
	Categories []CategoryBreakdown `json:"categories"`
}

// Financials computes the cost/paid/outstanding picture for a project
// snapshot. RemainingCost is never clamped: a negative value means the
// project is over budget by that amount and views must render it so.
func Financials(p Project) ProjectFinancials {
	expected := p.Costs.Total()
	paid := TotalPaid(p.Payments)
	billed := TotalBilled(p.Payments)

	paidByCat := PaidByCategory(p.Payments)
	billedByCat := BilledByCategory(p.Payments)

	categories := make([]CategoryBreakdown, 0, len(CostCategories))
	for _, cat := range CostCategories {
		budget := p.Costs.Amount(cat)
		catPaid := paidByCat[cat]
		categories = append(categories, CategoryBreakdown{
			Category:   cat,
			Budget:     budget,
			Billed:     billedByCat[cat],
			Paid:       catPaid,
			OverBudget: OverBudget(budget, catPaid),
		})
	}

	return ProjectFinancials{
		ExpectedCost:  expected,
		TotalBilled:   billed,
		TotalPaid:     paid,
		RemainingCost: expected.Sub(paid),
		Outstanding:   Outstanding(p.Payments),
		OverBudget:    OverBudget(expected, paid),
		Categories:    categories,
	}
}

// ProfitAnalysis carries the two parallel profit pictures. Every field
// names its basis; there is no merged "profit" figure.
type ProfitAnalysis struct {
	ExpectedGrossProfit Money   `json:"expected_gross_profit"`
	ActualGrossProfit   Money   `json:"actual_gross_profit"`
	ExpectedMargin      float64 `json:"expected_margin"`
	ActualMargin        float64 `json:"actual_margin"`
	// Positive differences mean actual performance exceeds the
	// expectation baseline.
	ProfitDifference Money   `json:"profit_difference"`
	MarginDifference float64 `json:"margin_difference"`
}

// MarginPercent expresses a profit as a percentage of the sales price.
// A zero or negative sales price yields exactly 0, never NaN or Inf.
func MarginPercent(profit, salesPrice Money) float64 {
	if salesPrice.Cents <= 0 {
		return 0
	}
	return float64(profit.Cents) / float64(salesPrice.Cents) * 100
}

// Profit derives expected vs actual gross profit and margins for a
// project snapshot.
func Profit(p Project) ProfitAnalysis {
	expectedCost := p.Costs.Total()
	paid := TotalPaid(p.Payments)

	expectedProfit := p.SalesPrice.Sub(expectedCost)
	actualProfit := p.SalesPrice.Sub(paid)

	expectedMargin := MarginPercent(expectedProfit, p.SalesPrice)
	actualMargin := MarginPercent(actualProfit, p.SalesPrice)

	return ProfitAnalysis{
		ExpectedGrossProfit: expectedProfit,
		ActualGrossProfit:   actualProfit,
		ExpectedMargin:      expectedMargin,
		ActualMargin:        actualMargin,
		ProfitDifference:    actualProfit.Sub(expectedProfit),
		MarginDifference:    actualMargin - expectedMargin,
	}
}
