// Package services orchestrates writes across SQLite and AMQP. The
// HTTP layer calls in here; core stays calculation-only.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studioops/internal/core"
	"studioops/internal/storage"
)

// ErrInvalidInput marks write payloads the service refuses to build a
// project from.
var ErrInvalidInput = errors.New("invalid input")

// SyncPublisher publishes project sync messages for the report worker.
type SyncPublisher interface {
	PublishProjectSync(ctx context.Context, projectID int64) error
	PublishProjectDelete(ctx context.Context, projectID int64) error
}

// ProjectInput is the write payload for a project. Numeric fields
// arrive as strings straight from the dashboard form; anything that
// fails to parse counts as zero.
type ProjectInput struct {
	Name    string `json:"name"`
	Code    string `json:"project_code"`
	Client  string `json:"client"`
	Type    string `json:"project_type"`
	Status  string `json:"status"`
	IsDraft bool   `json:"is_draft"`

	SalesPrice string `json:"sales_price"`

	Hours     string `json:"hours"`
	PaidHours string `json:"paid_hours"`

	ExternalCost            string `json:"external_cost"`
	ExternalPaid            string `json:"external_paid"`
	SoftwareCost            string `json:"software_cost"`
	SoftwarePaid            string `json:"software_paid"`
	VRDevelopmentCost       string `json:"vr_development_cost"`
	VRDevelopmentPaid       string `json:"vr_development_paid"`
	SoftwareDevelopmentCost string `json:"software_development_cost"`
	SoftwareDevelopmentPaid string `json:"software_development_paid"`
	DesignCost              string `json:"design_cost"`
	DesignPaid              string `json:"design_paid"`
	Modeling3DCost          string `json:"modeling_3d_cost"`
	Modeling3DPaid          string `json:"modeling_3d_paid"`
	RenderingCost           string `json:"rendering_cost"`
	RenderingPaid           string `json:"rendering_paid"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Notes     string `json:"notes"`
}

// ProjectService coordinates project writes: the project row, its
// synthesized per-category payment records, and the sync message.
type ProjectService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
	model     core.CostModel
}

func NewProjectService(storage *storage.SQLiteRepository, publisher SyncPublisher, model core.CostModel) *ProjectService {
	return &ProjectService{
		storage:   storage,
		publisher: publisher,
		model:     model,
	}
}

// CreateProject saves a new project and its synthesized payment
// records, then publishes a sync message.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput) (core.Project, error) {
	project, err := s.buildProject(input)
	if err != nil {
		return core.Project{}, err
	}

	id, err := s.storage.CreateProject(ctx, project)
	if err != nil {
		return core.Project{}, fmt.Errorf("save project: %w", err)
	}
	project.ID = id

	payments := s.synthesizePayments(id, input)
	if err := s.storage.ReplaceProjectPayments(ctx, id, payments); err != nil {
		return core.Project{}, fmt.Errorf("save payment records: %w", err)
	}
	project.Payments = payments

	s.publishSync(ctx, id)
	return project, nil
}

// UpdateProject rewrites the project row and replaces the synthesized
// payment records wholesale.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, input ProjectInput) (core.Project, error) {
	project, err := s.buildProject(input)
	if err != nil {
		return core.Project{}, err
	}
	project.ID = id

	if err := s.storage.UpdateProject(ctx, project); err != nil {
		return core.Project{}, fmt.Errorf("update project: %w", err)
	}

	payments := s.synthesizePayments(id, input)
	if err := s.storage.ReplaceProjectPayments(ctx, id, payments); err != nil {
		return core.Project{}, fmt.Errorf("replace payment records: %w", err)
	}
	project.Payments = payments

	s.publishSync(ctx, id)
	return project, nil
}

// SetStatus moves a project through its lifecycle.
func (s *ProjectService) SetStatus(ctx context.Context, id int64, status string) error {
	parsed, err := core.ParseProjectStatus(status)
	if err != nil {
		return err
	}

	if err := s.storage.SetProjectStatus(ctx, id, parsed); err != nil {
		return fmt.Errorf("set project status: %w", err)
	}

	s.publishSync(ctx, id)
	return nil
}

// DeleteProject removes the project and tells the worker to clear its
// report row.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.storage.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping delete message")
		return nil
	}
	if err := s.publisher.PublishProjectDelete(ctx, id); err != nil {
		// The project is gone locally either way.
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"project_id", id, "error", err)
	}
	return nil
}

func (s *ProjectService) buildProject(input ProjectInput) (core.Project, error) {
	status, err := core.ParseProjectStatus(input.Status)
	if err != nil {
		return core.Project{}, err
	}

	projectType := core.ProjectType(input.Type)
	if input.Type == "" {
		projectType = core.TypeFixedFee
	}
	if !projectType.Valid() {
		return core.Project{}, fmt.Errorf("%w: project type %q", ErrInvalidInput, input.Type)
	}

	startDate, err := parseInputDate(input.StartDate)
	if err != nil {
		return core.Project{}, fmt.Errorf("%w: start date: %v", ErrInvalidInput, err)
	}
	endDate, err := parseInputDate(input.EndDate)
	if err != nil {
		return core.Project{}, fmt.Errorf("%w: end date: %v", ErrInvalidInput, err)
	}

	project := core.Project{
		Name:       input.Name,
		Code:       input.Code,
		Client:     input.Client,
		Type:       projectType,
		Status:     status,
		IsDraft:    input.IsDraft,
		SalesPrice: coerceMoney(input.SalesPrice),
		Costs: core.CostSheet{
			Internal:            s.model.InternalCost(core.ParseHours(input.Hours)),
			External:            coerceMoney(input.ExternalCost),
			Software:            coerceMoney(input.SoftwareCost),
			VRDevelopment:       coerceMoney(input.VRDevelopmentCost),
			SoftwareDevelopment: coerceMoney(input.SoftwareDevelopmentCost),
			Design:              coerceMoney(input.DesignCost),
			Modeling3D:          coerceMoney(input.Modeling3DCost),
			Rendering:           coerceMoney(input.RenderingCost),
		},
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     input.Notes,
	}

	if err := project.Validate(); err != nil {
		return core.Project{}, err
	}
	return project, nil
}

// One synthesized record per cost category. The internal record is
// priced from hours; every other record carries the entered budget as
// billed and the entered paid amount as paid.
func (s *ProjectService) synthesizePayments(projectID int64, input ProjectInput) []core.PaymentRecord {
	today := core.Date{Time: time.Now()}
	stamp := time.Now().UnixMilli()

	entries := []struct {
		category core.CostCategory
		tag      string
		amount   core.Money
		paid     core.Money
		ptype    core.PaymentType
	}{
		{core.CategoryInternal, "INT",
			s.model.InternalCost(core.ParseHours(input.Hours)),
			s.model.InternalCost(core.ParseHours(input.PaidHours)),
			core.PaymentContractor},
		{core.CategoryExternal, "EXT",
			coerceMoney(input.ExternalCost), coerceMoney(input.ExternalPaid),
			core.PaymentContractor},
		{core.CategorySoftware, "SW",
			coerceMoney(input.SoftwareCost), coerceMoney(input.SoftwarePaid),
			core.PaymentSoftware},
		{core.CategoryVRDevelopment, "VR",
			coerceMoney(input.VRDevelopmentCost), coerceMoney(input.VRDevelopmentPaid),
			core.PaymentContractor},
		{core.CategorySoftwareDevelopment, "SWD",
			coerceMoney(input.SoftwareDevelopmentCost), coerceMoney(input.SoftwareDevelopmentPaid),
			core.PaymentContractor},
		{core.CategoryDesign, "DES",
			coerceMoney(input.DesignCost), coerceMoney(input.DesignPaid),
			core.PaymentContractor},
		{core.CategoryModeling3D, "3D",
			coerceMoney(input.Modeling3DCost), coerceMoney(input.Modeling3DPaid),
			core.PaymentContractor},
		{core.CategoryRendering, "REN",
			coerceMoney(input.RenderingCost), coerceMoney(input.RenderingPaid),
			core.PaymentContractor},
	}

	payments := make([]core.PaymentRecord, 0, len(entries))
	for _, e := range entries {
		payments = append(payments, core.PaymentRecord{
			ProjectID:  projectID,
			Amount:     e.amount,
			PaidAmount: e.paid,
			Date:       today,
			Category:   e.category,
			Type:       e.ptype,
			InvoiceRef: fmt.Sprintf("INV-%s-%d-%d", e.tag, projectID, stamp),
		})
	}
	return payments
}

func (s *ProjectService) publishSync(ctx context.Context, projectID int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping sync message")
		return
	}
	if err := s.publisher.PublishProjectSync(ctx, projectID); err != nil {
		// The local write already succeeded; the periodic refresh
		// will catch the sheet up.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"project_id", projectID, "error", err)
	}
}

func coerceMoney(s string) core.Money {
	return core.Money{Cents: core.CoerceCents(s)}
}

func parseInputDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return core.Date{Time: t}, nil
}
