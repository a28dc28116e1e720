// Package memory implements the report port in memory for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "studioops/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows map[int64]ports.ReportRow
}

var _ ports.ReportWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{rows: make(map[int64]ports.ReportRow)}
}

func (w *Writer) UpsertRow(_ context.Context, row ports.ReportRow) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rows[row.ProjectID] = row
	return fmt.Sprintf("memory://%d", row.ProjectID), nil
}

func (w *Writer) DeleteRow(_ context.Context, projectID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.rows, projectID)
	return nil
}

// Row returns the stored row for a project id
func (w *Writer) Row(projectID int64) (ports.ReportRow, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	row, ok := w.rows[projectID]
	return row, ok
}

// Len returns the number of stored rows
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}
