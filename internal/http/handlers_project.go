package http

import (
	"net/http"
	"strconv"

	"studioops/internal/core"
	"studioops/internal/services"
)

// ProjectView is the JSON shape of one project: the stored row plus the
// derived financials, never the raw snapshot.
type ProjectView struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Code       string             `json:"project_code"`
	Client     string             `json:"client"`
	Type       core.ProjectType   `json:"project_type"`
	Status     core.ProjectStatus `json:"status"`
	Bucket     core.Bucket        `json:"bucket"`
	IsDraft    bool               `json:"is_draft"`
	SalesPrice core.Money         `json:"sales_price"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Notes      string             `json:"notes"`

	Costs      CostSheetView          `json:"costs"`
	Financials core.ProjectFinancials `json:"financials"`
	Profit     core.ProfitAnalysis    `json:"profit"`
	Payments   []PaymentView          `json:"payments"`
}

type CostSheetView struct {
	Internal            core.Money `json:"internal"`
	External            core.Money `json:"external"`
	Software            core.Money `json:"software"`
	VRDevelopment       core.Money `json:"vr_development"`
	SoftwareDevelopment core.Money `json:"software_development"`
	Design              core.Money `json:"design"`
	Modeling3D          core.Money `json:"modeling_3d"`
	Rendering           core.Money `json:"rendering"`
	Total               core.Money `json:"total"`
}

type PaymentView struct {
	ID             int64             `json:"id"`
	ProjectID      int64             `json:"project_id"`
	Amount         core.Money        `json:"amount"`
	PaidAmount     core.Money        `json:"paid_amount"`
	Date           string            `json:"payment_date"`
	Category       core.CostCategory `json:"category"`
	Type           core.PaymentType  `json:"payment_type"`
	InvoiceRef     string            `json:"invoice_reference"`
	ContractorName string            `json:"contractor_name"`
	ImportBatchID  string            `json:"import_batch_id,omitempty"`
}

// AnalysisView pairs the cost picture with the profit picture for the
// per-project analysis endpoint.
type AnalysisView struct {
	ProjectID  int64                  `json:"project_id"`
	Name       string                 `json:"name"`
	Financials core.ProjectFinancials `json:"financials"`
	Profit     core.ProfitAnalysis    `json:"profit"`
}

func viewDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func projectView(p core.Project) ProjectView {
	payments := make([]PaymentView, 0, len(p.Payments))
	for _, rec := range p.Payments {
		payments = append(payments, PaymentView{
			ID:             rec.ID,
			ProjectID:      rec.ProjectID,
			Amount:         rec.Amount,
			PaidAmount:     rec.PaidAmount,
			Date:           viewDate(rec.Date),
			Category:       rec.Category,
			Type:           rec.Type,
			InvoiceRef:     rec.InvoiceRef,
			ContractorName: rec.ContractorName,
			ImportBatchID:  rec.ImportBatchID,
		})
	}

	return ProjectView{
		ID:         p.ID,
		Name:       p.Name,
		Code:       p.Code,
		Client:     p.Client,
		Type:       p.Type,
		Status:     p.Status,
		Bucket:     core.BucketFor(p.Status),
		IsDraft:    p.IsDraft,
		SalesPrice: p.SalesPrice,
		StartDate:  viewDate(p.StartDate),
		EndDate:    viewDate(p.EndDate),
		Notes:      p.Notes,
		Costs: CostSheetView{
			Internal:            p.Costs.Internal,
			External:            p.Costs.External,
			Software:            p.Costs.Software,
			VRDevelopment:       p.Costs.VRDevelopment,
			SoftwareDevelopment: p.Costs.SoftwareDevelopment,
			Design:              p.Costs.Design,
			Modeling3D:          p.Costs.Modeling3D,
			Rendering:           p.Costs.Rendering,
			Total:               p.Costs.Total(),
		},
		Financials: core.Financials(p),
		Profit:     core.Profit(p),
		Payments:   payments,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

const projectListCacheKey = "projects:all"

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if views, ok := s.listCache.Get(projectListCacheKey); ok {
		writeJSON(w, http.StatusOK, views)
		return
	}

	projects, err := s.repo.ListProjects(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView(p))
	}
	s.listCache.Set(projectListCacheKey, views)
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := s.repo.GetProject(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectView(project))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var input services.ProjectInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := s.projects.CreateProject(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, projectView(project))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var input services.ProjectInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := s.projects.UpdateProject(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, projectView(project))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := s.projects.DeleteProject(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSetProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.projects.SetStatus(r.Context(), id, req.Status); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) handleProjectAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := s.repo.GetProject(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalysisView{
		ProjectID:  project.ID,
		Name:       project.Name,
		Financials: core.Financials(project),
		Profit:     core.Profit(project),
	})
}
