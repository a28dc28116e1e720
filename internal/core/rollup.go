package core

// Bucket is a named grouping of projects by lifecycle status used for
// portfolio rollups.
type Bucket string

const (
	BucketPipeline          Bucket = "pipeline"
	BucketActive            Bucket = "active"
	BucketNearingCompletion Bucket = "nearing_completion"
	BucketCompleted         Bucket = "completed"
	BucketOnHold            Bucket = "on_hold"
	BucketCancelled         Bucket = "cancelled"
)

// Buckets lists every bucket in dashboard display order.
var Buckets = []Bucket{
	BucketPipeline,
	BucketActive,
	BucketNearingCompletion,
	BucketCompleted,
	BucketOnHold,
	BucketCancelled,
}

// BucketFor maps a status to its rollup bucket. Pending and awaiting_po
// share the pipeline bucket; everything else is a singleton.
func BucketFor(status ProjectStatus) Bucket {
	switch status {
	case StatusPending, StatusAwaitingPO:
		return BucketPipeline
	case StatusActive:
		return BucketActive
	case StatusNearingCompletion:
		return BucketNearingCompletion
	case StatusCompleted:
		return BucketCompleted
	case StatusOnHold:
		return BucketOnHold
	case StatusCancelled:
		return BucketCancelled
	}
	// Unknown statuses cannot reach here through ParseProjectStatus;
	// treat anything that does as pipeline so it stays visible.
	return BucketPipeline
}

// BucketSummary is the per-bucket count and totals for the dashboard
// status cards.
type BucketSummary struct {
	Bucket     Bucket `json:"bucket"`
	Count      int    `json:"count"`
	SalesTotal Money  `json:"sales_total"`
	PaidTotal  Money  `json:"paid_total"`
}

// PortfolioSummary aggregates across a project collection. Totals are
// recomputed from the per-project functions on every call; there is no
// separately maintained running total to drift.
type PortfolioSummary struct {
	Buckets []BucketSummary `json:"buckets"`

	// Whole-portfolio headline figures.
	ExpectedCostTotal Money `json:"expected_cost_total"`
	PaidTotal         Money `json:"paid_total"`
	// OutstandingTotal is the payment-level unpaid sum across all
	// projects, shown as "Total Unpaid Costs".
	OutstandingTotal Money `json:"outstanding_total"`

	ProjectCount int `json:"project_count"`
	// DraftCount is how many projects were excluded as drafts.
	DraftCount int `json:"draft_count"`
}

// Summarize rolls a project collection up into buckets. Drafts are
// excluded from every financial figure; they belong only to raw listing
// views. Each non-draft project lands in exactly one bucket.
func Summarize(projects []Project) PortfolioSummary {
	byBucket := make(map[Bucket]*BucketSummary, len(Buckets))
	for _, b := range Buckets {
		byBucket[b] = &BucketSummary{Bucket: b}
	}

	summary := PortfolioSummary{}
	for _, p := range projects {
		if p.IsDraft {
			summary.DraftCount++
			continue
		}
		summary.ProjectCount++

		paid := TotalPaid(p.Payments)

		b := byBucket[BucketFor(p.Status)]
		b.Count++
		b.SalesTotal = b.SalesTotal.Add(p.SalesPrice)
		b.PaidTotal = b.PaidTotal.Add(paid)

		summary.ExpectedCostTotal = summary.ExpectedCostTotal.Add(p.Costs.Total())
		summary.PaidTotal = summary.PaidTotal.Add(paid)
		summary.OutstandingTotal = summary.OutstandingTotal.Add(Outstanding(p.Payments))
	}

	summary.Buckets = make([]BucketSummary, 0, len(Buckets))
	for _, b := range Buckets {
		summary.Buckets = append(summary.Buckets, *byBucket[b])
	}
	return summary
}
