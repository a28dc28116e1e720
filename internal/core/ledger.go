package core

// Payment ledger view: sums over a project's payment records. A nil or
// empty slice means "fully unpaid" and yields zero totals, never an
// error.

// TotalBilled is Σ amount over the records.
func TotalBilled(payments []PaymentRecord) Money {
	var total Money
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalPaid is Σ paid_amount over the records.
func TotalPaid(payments []PaymentRecord) Money {
	var total Money
	for _, p := range payments {
		total = total.Add(p.PaidAmount)
	}
	return total
}

// Outstanding is the payment-level unpaid figure: Σ (amount − paid)
// per record. This compares against what was BILLED and is distinct
// from RemainingCost, which compares paid against the cost model.
func Outstanding(payments []PaymentRecord) Money {
	var total Money
	for _, p := range payments {
		total = total.Add(p.Amount.Sub(p.PaidAmount))
	}
	return total
}

// PaidByCategory groups Σ paid_amount by the explicit category tag.
func PaidByCategory(payments []PaymentRecord) map[CostCategory]Money {
	sums := make(map[CostCategory]Money, len(CostCategories))
	for _, p := range payments {
		sums[p.Category] = sums[p.Category].Add(p.PaidAmount)
	}
	return sums
}

// BilledByCategory groups Σ amount by the explicit category tag.
func BilledByCategory(payments []PaymentRecord) map[CostCategory]Money {
	sums := make(map[CostCategory]Money, len(CostCategories))
	for _, p := range payments {
		sums[p.Category] = sums[p.Category].Add(p.Amount)
	}
	return sums
}

// OverBudget reports whether paid strictly exceeds the budget. Equal
// values are not over budget.
func OverBudget(budget, paid Money) bool {
	return paid.Cents > budget.Cents
}
