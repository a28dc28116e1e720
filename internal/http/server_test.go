package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studioops/internal/core"
	"studioops/internal/services"
	"studioops/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	model, err := core.NewCostModel(core.Money{Cents: 6500})
	if err != nil {
		t.Fatalf("NewCostModel: %v", err)
	}

	projects := services.NewProjectService(repo, nil, model)
	importer := services.NewPaymentImporter(repo, nil)

	srv := NewServer(":0", repo, projects, importer)
	t.Cleanup(func() { srv.cacheManager.Stop(); srv.limiter.Stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

const projectPayload = `{
	"name": "Showroom VR",
	"project_code": "SRV-01",
	"client": "Acme",
	"status": "active",
	"sales_price": "1000.00",
	"hours": "10",
	"paid_hours": "5",
	"external_cost": "200.00",
	"external_paid": "100.00"
}`

func createProject(t *testing.T, srv *Server) ProjectView {
	t.Helper()

	rec := doRequest(t, srv, http.MethodPost, "/api/projects", projectPayload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var view ProjectView
	decodeBody(t, rec, &view)
	return view
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: got status %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: got status %d", rec.Code)
	}
}

func TestCreateProjectSynthesizesFinancials(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	if view.ID == 0 {
		t.Fatal("expected assigned project id")
	}
	// 10h at 65.00/h plus 200.00 external.
	if view.Costs.Internal.Cents != 65000 {
		t.Fatalf("internal cost: got %d cents", view.Costs.Internal.Cents)
	}
	if view.Costs.Total.Cents != 85000 {
		t.Fatalf("total cost: got %d cents", view.Costs.Total.Cents)
	}
	if len(view.Payments) != len(core.CostCategories) {
		t.Fatalf("payments: got %d, want %d", len(view.Payments), len(core.CostCategories))
	}
	// 5 paid hours plus 100.00 external paid.
	if view.Financials.TotalPaid.Cents != 42500 {
		t.Fatalf("total paid: got %d cents", view.Financials.TotalPaid.Cents)
	}
	if view.Financials.RemainingCost.Cents != 42500 {
		t.Fatalf("remaining cost: got %d cents", view.Financials.RemainingCost.Cents)
	}
}

func TestCreateProjectInvalidStatus(t *testing.T) {
	srv := newTestServer(t)

	body := strings.Replace(projectPayload, `"active"`, `"launched"`, 1)
	rec := doRequest(t, srv, http.MethodPost, "/api/projects", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/projects/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/api/projects/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: got status %d, want 400", rec.Code)
	}
}

func TestUpdateProjectReplacesFinancials(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	body := strings.Replace(projectPayload, `"hours": "10"`, `"hours": "20"`, 1)
	rec := doRequest(t, srv, http.MethodPut, fmt.Sprintf("/api/projects/%d", view.ID), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var updated ProjectView
	decodeBody(t, rec, &updated)
	if updated.Costs.Internal.Cents != 130000 {
		t.Fatalf("internal cost after update: got %d cents", updated.Costs.Internal.Cents)
	}

	fetched := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/projects/%d", view.ID), "")
	var persisted ProjectView
	decodeBody(t, fetched, &persisted)
	if len(persisted.Payments) != len(core.CostCategories) {
		t.Fatalf("payments after update: got %d, want %d", len(persisted.Payments), len(core.CostCategories))
	}
}

func TestSetProjectStatus(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	rec := doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/status", view.ID), `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: got %d, body %s", rec.Code, rec.Body.String())
	}

	fetched := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/projects/%d", view.ID), "")
	var persisted ProjectView
	decodeBody(t, fetched, &persisted)
	if persisted.Status != core.StatusCompleted {
		t.Fatalf("status: got %q", persisted.Status)
	}
	if persisted.Bucket != core.BucketCompleted {
		t.Fatalf("bucket: got %q", persisted.Bucket)
	}

	if rec := doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/status", view.ID), `{"status":"nope"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: got %d, want 400", rec.Code)
	}
}

func TestDeleteProject(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	rec := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/projects/%d", view.ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d", rec.Code)
	}

	if rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/projects/%d", view.ID), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("after delete: got status %d, want 404", rec.Code)
	}
}

func TestProjectAnalysis(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/projects/%d/analysis", view.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analysis: got status %d", rec.Code)
	}

	var analysis AnalysisView
	decodeBody(t, rec, &analysis)
	// Sales 1000.00 against 850.00 expected and 425.00 paid.
	if analysis.Profit.ExpectedGrossProfit.Cents != 15000 {
		t.Fatalf("expected gross profit: got %d cents", analysis.Profit.ExpectedGrossProfit.Cents)
	}
	if analysis.Profit.ActualGrossProfit.Cents != 57500 {
		t.Fatalf("actual gross profit: got %d cents", analysis.Profit.ActualGrossProfit.Cents)
	}
}

func TestPortfolioSummary(t *testing.T) {
	srv := newTestServer(t)
	createProject(t, srv)

	draft := strings.Replace(projectPayload, `"status": "active"`, `"status": "pending", "is_draft": true`, 1)
	if rec := doRequest(t, srv, http.MethodPost, "/api/projects", draft); rec.Code != http.StatusCreated {
		t.Fatalf("create draft: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("portfolio: got status %d", rec.Code)
	}

	var summary core.PortfolioSummary
	decodeBody(t, rec, &summary)
	if summary.ProjectCount != 1 {
		t.Fatalf("project count: got %d, want 1", summary.ProjectCount)
	}
	if summary.DraftCount != 1 {
		t.Fatalf("draft count: got %d, want 1", summary.DraftCount)
	}
	if summary.PaidTotal.Cents != 42500 {
		t.Fatalf("paid total: got %d cents", summary.PaidTotal.Cents)
	}
}

func TestPortfolioCacheInvalidatedOnWrite(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio", "")
	var empty core.PortfolioSummary
	decodeBody(t, rec, &empty)
	if empty.ProjectCount != 0 {
		t.Fatalf("project count before write: got %d", empty.ProjectCount)
	}

	createProject(t, srv)

	rec = doRequest(t, srv, http.MethodGet, "/api/portfolio", "")
	var after core.PortfolioSummary
	decodeBody(t, rec, &after)
	if after.ProjectCount != 1 {
		t.Fatalf("project count after write: got %d, want 1", after.ProjectCount)
	}
}

func TestImportPayments(t *testing.T) {
	srv := newTestServer(t)
	view := createProject(t, srv)

	csvBody := "category,amount,paid_amount,contractor_name\n" +
		"rendering,500.00,250.00,Render Farm\n" +
		"unknown_cat,10.00,0,\n"
	rec := doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/payments/import", view.ID), csvBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var result services.ImportResult
	decodeBody(t, rec, &result)
	if result.Imported != 1 {
		t.Fatalf("imported: got %d, want 1", result.Imported)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("rejected: got %d, want 1", len(result.Rejected))
	}

	if rec := doRequest(t, srv, http.MethodPost, "/api/projects/999/payments/import", csvBody); rec.Code != http.StatusNotFound {
		t.Fatalf("import to missing project: got status %d, want 404", rec.Code)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	srv := newTestServer(t)

	body := `{"name":"Figma","amount":"45.00","date":"2026-08-01","frequency":"monthly","status":"keep"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/expenses", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var created ExpenseView
	decodeBody(t, rec, &created)
	if created.Amount.Cents != 4500 {
		t.Fatalf("amount: got %d cents", created.Amount.Cents)
	}

	update := `{"name":"Figma","amount":"50.00","date":"2026-08-01","frequency":"monthly","status":"cancel"}`
	rec = doRequest(t, srv, http.MethodPut, fmt.Sprintf("/api/expenses/%d", created.ID), update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update expense: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses", "")
	var list []ExpenseView
	decodeBody(t, rec, &list)
	if len(list) != 1 || list[0].Status != core.ExpenseCancel {
		t.Fatalf("list after update: %+v", list)
	}

	if rec := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", created.ID), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete expense: got status %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodDelete, "/api/expenses/999", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing expense: got status %d, want 404", rec.Code)
	}
}

func TestExpenseValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"amount":"45.00","date":"2026-08-01","frequency":"monthly"}`},
		{"bad frequency", `{"name":"X","amount":"45.00","date":"2026-08-01","frequency":"weekly"}`},
		{"bad date", `{"name":"X","amount":"45.00","date":"01/08/2026","frequency":"monthly"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/expenses", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestExpenseSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := `{"name":"Hosting","amount":"30.00","date":"` + currentMonthDate() + `","frequency":"monthly","status":"keep"}`
	if rec := doRequest(t, srv, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
		t.Fatalf("create expense: got status %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/expenses/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: got status %d", rec.Code)
	}
	var summary core.ExpenseSummary
	decodeBody(t, rec, &summary)
	if summary.MonthlyTotal.Cents != 3000 {
		t.Fatalf("monthly total: got %d cents", summary.MonthlyTotal.Cents)
	}
}

func currentMonthDate() string {
	return time.Now().UTC().Format("2006-01") + "-01"
}

func TestSecurityHeadersPresent(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options: got %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
