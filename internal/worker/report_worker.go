// Package worker exports project financials from SQLite to the
// portfolio report sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studioops/internal/amqp"
	"studioops/internal/core"
	"studioops/internal/sheets"
	"studioops/internal/storage"
)

// ProjectStore is the subset of the repository the worker needs.
type ProjectStore interface {
	GetProject(ctx context.Context, id int64) (core.Project, error)
	ListProjects(ctx context.Context) ([]core.Project, error)
}

// ReportWorker consumes project sync messages and keeps the report
// sheet in step with the database.
type ReportWorker struct {
	store  ProjectStore
	report sheets.ReportWriter
}

func NewReportWorker(store ProjectStore, report sheets.ReportWriter) *ReportWorker {
	return &ReportWorker{
		store:  store,
		report: report,
	}
}

// HandleMessage dispatches a single sync message by kind.
func (w *ReportWorker) HandleMessage(ctx context.Context, msg *amqp.ProjectSyncMessage) error {
	switch msg.Kind {
	case amqp.KindUpsert:
		return w.handleUpsert(ctx, msg.ProjectID)
	case amqp.KindDelete:
		return w.handleDelete(ctx, msg.ProjectID)
	default:
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}
}

func (w *ReportWorker) handleUpsert(ctx context.Context, projectID int64) error {
	project, err := w.store.GetProject(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume. Clear the row instead.
		slog.WarnContext(ctx, "Project gone before sync, clearing row",
			"project_id", projectID)
		return w.handleDelete(ctx, projectID)
	}
	if err != nil {
		return fmt.Errorf("get project from storage: %w", err)
	}

	if project.IsDraft {
		// Drafts stay out of the report. Clear any leftover row from
		// before the project became a draft.
		return w.handleDelete(ctx, projectID)
	}

	ref, err := w.report.UpsertRow(ctx, BuildReportRow(project))
	if err != nil {
		return fmt.Errorf("write report row: %w", err)
	}

	slog.InfoContext(ctx, "Project synced to report",
		"project_id", projectID,
		"project_name", project.Name,
		"sheets_range", ref)
	return nil
}

func (w *ReportWorker) handleDelete(ctx context.Context, projectID int64) error {
	if err := w.report.DeleteRow(ctx, projectID); err != nil {
		return fmt.Errorf("clear report row: %w", err)
	}

	slog.InfoContext(ctx, "Project removed from report",
		"project_id", projectID)
	return nil
}

// RefreshAll rewrites the report row for every non-draft project.
// Called on a timer so the sheet converges even when messages are
// lost.
func (w *ReportWorker) RefreshAll(ctx context.Context) error {
	projects, err := w.store.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects from storage: %w", err)
	}

	var failed int
	for _, project := range projects {
		if project.IsDraft {
			continue
		}
		if _, err := w.report.UpsertRow(ctx, BuildReportRow(project)); err != nil {
			failed++
			slog.ErrorContext(ctx, "Failed to refresh report row",
				"project_id", project.ID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Report refresh completed",
		"projects", len(projects),
		"failed", failed)
	if failed > 0 {
		return fmt.Errorf("refresh: %d of %d rows failed", failed, len(projects))
	}
	return nil
}

// BuildReportRow derives a report line from a project's financials.
func BuildReportRow(p core.Project) sheets.ReportRow {
	fin := core.Financials(p)
	profit := core.Profit(p)

	return sheets.ReportRow{
		ProjectID:      p.ID,
		Name:           p.Name,
		Code:           p.Code,
		Client:         p.Client,
		Status:         string(p.Status),
		SalesPrice:     p.SalesPrice.Euros(),
		ExpectedCost:   fin.ExpectedCost.Euros(),
		TotalBilled:    fin.TotalBilled.Euros(),
		TotalPaid:      fin.TotalPaid.Euros(),
		Outstanding:    fin.Outstanding.Euros(),
		RemainingCost:  fin.RemainingCost.Euros(),
		ExpectedMargin: profit.ExpectedMargin,
		ActualMargin:   profit.ActualMargin,
		OverBudget:     fin.OverBudget,
	}
}
