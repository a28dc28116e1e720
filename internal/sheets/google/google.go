// Package google implements the portfolio report port against the
// Google Sheets API using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	ports "studioops/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Column layout of the report sheet. Row 1 is the header; project
// rows start at row 2 with the project id in column A.
const (
	headerRow     = 1
	firstDataRow  = 2
	lastColumn    = "N"
	reportColumns = 14
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportSheet   string
}

var _ ports.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
// REPORT_SHEET_NAME overrides the sheet name (default "Portfolio").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	reportSheet := strings.TrimSpace(os.Getenv("REPORT_SHEET_NAME"))
	if reportSheet == "" {
		reportSheet = "Portfolio"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportSheet:   reportSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// UpsertRow replaces the existing row for the project or appends a new
// one below the last data row.
func (c *Client) UpsertRow(ctx context.Context, row ports.ReportRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rowNum, total, err := c.findProjectRow(ctx, row.ProjectID)
	if err != nil {
		return "", err
	}
	if rowNum == 0 {
		rowNum = firstDataRow + total
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.reportSheet, rowNum, lastColumn, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(row)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write report row for project %d: %w", row.ProjectID, err)
	}

	slog.InfoContext(ctx, "Report row written",
		"project_id", row.ProjectID,
		"sheets_range", rng)
	return rng, nil
}

// DeleteRow clears the row for the given project id.
func (c *Client) DeleteRow(ctx context.Context, projectID int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rowNum, _, err := c.findProjectRow(ctx, projectID)
	if err != nil {
		return err
	}
	if rowNum == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.reportSheet, rowNum, lastColumn, rowNum)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear report row for project %d: %w", projectID, err)
	}

	slog.InfoContext(ctx, "Report row cleared",
		"project_id", projectID,
		"sheets_range", rng)
	return nil
}

// findProjectRow scans column A for the project id. It returns the
// 1-based row number (0 when absent) and the number of data rows seen.
func (c *Client) findProjectRow(ctx context.Context, projectID int64) (rowNum, total int, err error) {
	rng := fmt.Sprintf("%s!A%d:A", c.reportSheet, firstDataRow)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, 0, fmt.Errorf("read report id column: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		id, parseErr := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(row[0])), 10, 64)
		if parseErr != nil {
			continue
		}
		if id == projectID {
			rowNum = firstDataRow + i
		}
	}
	return rowNum, len(resp.Values), nil
}

// WriteHeader writes the column titles on the first row. Safe to call
// repeatedly.
func (c *Client) WriteHeader(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.reportSheet, headerRow, lastColumn, headerRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		"ID", "Name", "Code", "Client", "Status",
		"Sales Price", "Expected Cost", "Billed", "Paid",
		"Outstanding", "Remaining Cost", "Expected Margin %", "Actual Margin %", "Over Budget",
	}}}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	return nil
}

func rowValues(row ports.ReportRow) []any {
	overBudget := "no"
	if row.OverBudget {
		overBudget = "yes"
	}
	return []any{
		row.ProjectID, row.Name, row.Code, row.Client, row.Status,
		row.SalesPrice, row.ExpectedCost, row.TotalBilled, row.TotalPaid,
		row.Outstanding, row.RemainingCost, row.ExpectedMargin, row.ActualMargin, overBudget,
	}
}
