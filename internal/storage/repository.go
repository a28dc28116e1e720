// Package storage is the persistence collaborator: a SQLite-backed
// store for projects, their payment records, and company expenses. The
// core computation layer never touches it; callers fetch snapshots
// here and hand them to core.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"studioops/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const projectColumns = `id, name, project_code, client, project_type, status, is_draft,
	sales_price_cents, internal_cost_cents, external_cost_cents, software_cost_cents,
	vr_development_cost_cents, software_development_cost_cents, design_cost_cents,
	modeling_3d_cost_cents, rendering_cost_cents, start_date, end_date, notes`

func scanProject(row interface{ Scan(...any) error }) (core.Project, error) {
	var (
		p                    core.Project
		projectType, status  string
		isDraft              int64
		startDate, endDate   string
		sales                int64
		internal, external   int64
		software, vrDev      int64
		softwareDev, design  int64
		modeling3d, render3d int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Client, &projectType, &status, &isDraft,
		&sales, &internal, &external, &software,
		&vrDev, &softwareDev, &design,
		&modeling3d, &render3d, &startDate, &endDate, &p.Notes)
	if err != nil {
		return core.Project{}, err
	}

	parsedStatus, err := core.ParseProjectStatus(status)
	if err != nil {
		return core.Project{}, fmt.Errorf("project %d: %w (%q)", p.ID, err, status)
	}
	p.Status = parsedStatus
	p.Type = core.ProjectType(projectType)
	p.IsDraft = isDraft != 0
	p.SalesPrice = core.Money{Cents: sales}
	p.Costs = core.CostSheet{
		Internal:            core.Money{Cents: internal},
		External:            core.Money{Cents: external},
		Software:            core.Money{Cents: software},
		VRDevelopment:       core.Money{Cents: vrDev},
		SoftwareDevelopment: core.Money{Cents: softwareDev},
		Design:              core.Money{Cents: design},
		Modeling3D:          core.Money{Cents: modeling3d},
		Rendering:           core.Money{Cents: render3d},
	}
	p.StartDate = parseDate(startDate)
	p.EndDate = parseDate(endDate)
	return p, nil
}

// ListProjects returns every project with its payment records embedded,
// in two queries grouped in memory.
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []core.Project
	index := make(map[int64]int)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	payments, err := r.listAllPayments(ctx)
	if err != nil {
		return nil, err
	}
	for _, payment := range payments {
		if i, ok := index[payment.ProjectID]; ok {
			projects[i].Payments = append(projects[i].Payments, payment)
		}
	}
	return projects, nil
}

// GetProject returns one project with its payment records embedded.
func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (core.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}

	p.Payments, err = r.ListPayments(ctx, id)
	if err != nil {
		return core.Project{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.Project) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (name, project_code, client, project_type, status, is_draft,
			sales_price_cents, internal_cost_cents, external_cost_cents, software_cost_cents,
			vr_development_cost_cents, software_development_cost_cents, design_cost_cents,
			modeling_3d_cost_cents, rendering_cost_cents, start_date, end_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Code, p.Client, string(p.Type), string(p.Status), boolToInt(p.IsDraft),
		p.SalesPrice.Cents, p.Costs.Internal.Cents, p.Costs.External.Cents, p.Costs.Software.Cents,
		p.Costs.VRDevelopment.Cents, p.Costs.SoftwareDevelopment.Cents, p.Costs.Design.Cents,
		p.Costs.Modeling3D.Cents, p.Costs.Rendering.Cents,
		formatDate(p.StartDate), formatDate(p.EndDate), p.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("project insert id: %w", err)
	}

	slog.InfoContext(ctx, "Project saved",
		"id", id,
		"name", p.Name,
		"status", p.Status,
		"sales_price_cents", p.SalesPrice.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateProject(ctx context.Context, p core.Project) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, project_code = ?, client = ?, project_type = ?,
			status = ?, is_draft = ?, sales_price_cents = ?,
			internal_cost_cents = ?, external_cost_cents = ?, software_cost_cents = ?,
			vr_development_cost_cents = ?, software_development_cost_cents = ?, design_cost_cents = ?,
			modeling_3d_cost_cents = ?, rendering_cost_cents = ?,
			start_date = ?, end_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, p.Code, p.Client, string(p.Type), string(p.Status), boolToInt(p.IsDraft),
		p.SalesPrice.Cents,
		p.Costs.Internal.Cents, p.Costs.External.Cents, p.Costs.Software.Cents,
		p.Costs.VRDevelopment.Cents, p.Costs.SoftwareDevelopment.Cents, p.Costs.Design.Cents,
		p.Costs.Modeling3D.Cents, p.Costs.Rendering.Cents,
		formatDate(p.StartDate), formatDate(p.EndDate), p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return requireRow(res, p.ID)
}

func (r *SQLiteRepository) SetProjectStatus(ctx context.Context, id int64, status core.ProjectStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("set project %d status: %w", id, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) DeleteProject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return requireRow(res, id)
}

const paymentColumns = `id, project_id, amount_cents, paid_amount_cents, payment_date,
	category, payment_type, invoice_reference, contractor_name, import_batch_id`

func scanPayment(rows *sql.Rows) (core.PaymentRecord, error) {
	var (
		p                     core.PaymentRecord
		amount, paid          int64
		date, category, ptype string
	)
	err := rows.Scan(&p.ID, &p.ProjectID, &amount, &paid, &date,
		&category, &ptype, &p.InvoiceRef, &p.ContractorName, &p.ImportBatchID)
	if err != nil {
		return core.PaymentRecord{}, err
	}
	cat, err := core.ParseCostCategory(category)
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("payment %d: %w (%q)", p.ID, err, category)
	}
	p.Amount = core.Money{Cents: amount}
	p.PaidAmount = core.Money{Cents: paid}
	p.Date = parseDate(date)
	p.Category = cat
	p.Type = core.PaymentType(ptype)
	return p, nil
}

// ListPayments returns a project's payment records ordered by id.
func (r *SQLiteRepository) ListPayments(ctx context.Context, projectID int64) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM project_payments WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query payments for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var payments []core.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) listAllPayments(ctx context.Context) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM project_payments ORDER BY project_id, id`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []core.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ReplaceProjectPayments deletes a project's payment records and
// inserts the given set in one transaction. This is the edit flow: the
// synthesized per-category records are replaced wholesale.
func (r *SQLiteRepository) ReplaceProjectPayments(ctx context.Context, projectID int64, payments []core.PaymentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace payments: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_payments WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clear payments for project %d: %w", projectID, err)
	}
	if err := insertPayments(ctx, tx, payments); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace payments: %w", err)
	}

	slog.InfoContext(ctx, "Project payments replaced",
		"project_id", projectID,
		"count", len(payments))
	return nil
}

// InsertPayments appends payment records, e.g. an imported CSV batch.
func (r *SQLiteRepository) InsertPayments(ctx context.Context, payments []core.PaymentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert payments: %w", err)
	}
	defer tx.Rollback()

	if err := insertPayments(ctx, tx, payments); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert payments: %w", err)
	}
	return nil
}

func insertPayments(ctx context.Context, tx *sql.Tx, payments []core.PaymentRecord) error {
	for _, p := range payments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO project_payments (project_id, amount_cents, paid_amount_cents,
				payment_date, category, payment_type, invoice_reference, contractor_name, import_batch_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ProjectID, p.Amount.Cents, p.PaidAmount.Cents,
			formatDate(p.Date), string(p.Category), string(p.Type),
			p.InvoiceRef, p.ContractorName, p.ImportBatchID)
		if err != nil {
			return fmt.Errorf("insert payment for project %d: %w", p.ProjectID, err)
		}
	}
	return nil
}

const expenseColumns = `id, name, amount_cents, client, expense_type, expense_date, frequency, status, used_for`

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY expense_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e                 core.Expense
			amount            int64
			date, freq, state string
		)
		if err := rows.Scan(&e.ID, &e.Name, &amount, &e.Client, &e.Type, &date, &freq, &state, &e.UsedFor); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.Money{Cents: amount}
		e.Date = parseDate(date)
		e.Frequency = core.Frequency(freq)
		e.Status = core.ExpenseStatus(state)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (name, amount_cents, client, expense_type, expense_date, frequency, status, used_for)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Amount.Cents, e.Client, e.Type, formatDate(e.Date),
		string(e.Frequency), string(e.Status), e.UsedFor)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET name = ?, amount_cents = ?, client = ?, expense_type = ?,
			expense_date = ?, frequency = ?, status = ?, used_for = ?
		WHERE id = ?`,
		e.Name, e.Amount.Cents, e.Client, e.Type, formatDate(e.Date),
		string(e.Frequency), string(e.Status), e.UsedFor, e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return requireRow(res, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for id %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Dates are stored as YYYY-MM-DD strings; the empty string means unset.
func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func parseDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}
