package core

import "testing"

func TestParseProjectStatus(t *testing.T) {
	for _, s := range ProjectStatuses {
		got, err := ParseProjectStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseProjectStatus(%s) = %v, %v", s, got, err)
		}
	}
	for _, bad := range []string{"", "archived"} {
		if _, err := ParseProjectStatus(bad); err == nil {
			t.Fatalf("ParseProjectStatus(%q) expected error", bad)
		}
	}
	// Trimmed but case-sensitive.
	if _, err := ParseProjectStatus(" active "); err != nil {
		t.Fatalf("ParseProjectStatus with spacing: %v", err)
	}
	if _, err := ParseProjectStatus("ACTIVE"); err == nil {
		t.Fatalf("uppercase status must be rejected")
	}
}

func TestProjectValidate(t *testing.T) {
	good := Project{
		Name:       "Showroom",
		Type:       TypeFixedFee,
		Status:     StatusPending,
		SalesPrice: Money{Cents: 100000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Project{
		{Name: "", Type: TypeFixedFee, Status: StatusPending},
		{Name: "x", Type: TypeFixedFee, Status: "limbo"},
		{Name: "x", Type: "hourly", Status: StatusPending},
		{Name: "x", Type: TypeFixedFee, Status: StatusPending, SalesPrice: Money{Cents: -1}},
		{Name: "x", Type: TypeFixedFee, Status: StatusPending, Costs: CostSheet{Design: Money{Cents: -5}}},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPaymentRecordValidate(t *testing.T) {
	good := PaymentRecord{
		ProjectID:  7,
		Amount:     Money{Cents: 1000},
		PaidAmount: Money{Cents: 1200}, // over-payment is valid
		Category:   CategoryRendering,
		Type:       PaymentContractor,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []PaymentRecord{
		{ProjectID: 0, Amount: Money{Cents: 1}, Category: CategoryDesign, Type: PaymentContractor},
		{ProjectID: 1, Amount: Money{Cents: 1}, Category: "misc", Type: PaymentContractor},
		{ProjectID: 1, Amount: Money{Cents: 1}, Category: CategoryDesign, Type: "cash"},
		{ProjectID: 1, Amount: Money{Cents: -1}, Category: CategoryDesign, Type: PaymentContractor},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
