package sheets

import "context"

// ReportRow is one project's line in the exported portfolio report.
// Money values are euros, ready for the sheet.
type ReportRow struct {
	ProjectID      int64
	Name           string
	Code           string
	Client         string
	Status         string
	SalesPrice     float64
	ExpectedCost   float64
	TotalBilled    float64
	TotalPaid      float64
	Outstanding    float64
	RemainingCost  float64
	ExpectedMargin float64
	ActualMargin   float64
	OverBudget     bool
}

// ReportWriter is the outbound port for the portfolio report export.
type ReportWriter interface {
	// UpsertRow writes the row for its project, replacing an existing
	// row with the same project id or appending a new one. It returns
	// a reference to the written range.
	UpsertRow(ctx context.Context, row ReportRow) (rowRef string, err error)

	// DeleteRow removes the row for the given project id. Deleting a
	// project that has no row is not an error.
	DeleteRow(ctx context.Context, projectID int64) error
}
