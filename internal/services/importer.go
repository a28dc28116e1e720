package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"studioops/internal/core"
	"studioops/internal/storage"
)

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Rejected []string `json:"rejected,omitempty"`
}

// PaymentImporter appends payment records from a CSV upload. Rows are
// tagged with a shared batch id so an import can be traced later.
type PaymentImporter struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewPaymentImporter(storage *storage.SQLiteRepository, publisher SyncPublisher) *PaymentImporter {
	return &PaymentImporter{
		storage:   storage,
		publisher: publisher,
	}
}

// Expected header columns. Order is free; unknown columns are
// ignored. Amounts that fail to parse count as zero; a missing or
// unknown category rejects the row.
var csvColumns = map[string]bool{
	"category":          true,
	"amount":            true,
	"paid_amount":       true,
	"payment_date":      true,
	"payment_type":      true,
	"invoice_reference": true,
	"contractor_name":   true,
}

// Import reads CSV rows and appends them as payment records for the
// project. It returns the batch id along with per-row rejections;
// rejected rows never abort the rest of the batch.
func (i *PaymentImporter) Import(ctx context.Context, projectID int64, r io.Reader) (ImportResult, error) {
	if _, err := i.storage.GetProject(ctx, projectID); err != nil {
		return ImportResult{}, fmt.Errorf("look up project %d: %w", projectID, err)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read CSV header: %w", err)
	}
	columns := make(map[string]int)
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if csvColumns[name] {
			columns[name] = idx
		}
	}
	if _, ok := columns["category"]; !ok {
		return ImportResult{}, fmt.Errorf("CSV header is missing the category column")
	}

	batchID := uuid.NewString()
	result := ImportResult{BatchID: batchID}
	var payments []core.PaymentRecord

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		payment, err := buildImportedPayment(projectID, batchID, columns, record)
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		payments = append(payments, payment)
	}

	if len(payments) > 0 {
		if err := i.storage.InsertPayments(ctx, payments); err != nil {
			return ImportResult{}, fmt.Errorf("insert imported payments: %w", err)
		}
	}
	result.Imported = len(payments)

	if i.publisher != nil {
		if err := i.publisher.PublishProjectSync(ctx, projectID); err != nil {
			// Rows are saved; the periodic refresh covers the sheet.
			slog.ErrorContext(ctx, "Failed to publish sync message after import",
				"project_id", projectID, "error", err)
		}
	}
	return result, nil
}

func buildImportedPayment(projectID int64, batchID string, columns map[string]int, record []string) (core.PaymentRecord, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	category, err := core.ParseCostCategory(field("category"))
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("%w: %q", err, field("category"))
	}

	paymentType := core.PaymentType(field("payment_type"))
	if field("payment_type") == "" {
		paymentType = core.PaymentContractor
	}
	if !paymentType.Valid() {
		return core.PaymentRecord{}, fmt.Errorf("invalid payment type %q", field("payment_type"))
	}

	date := core.Date{Time: time.Now()}
	if raw := field("payment_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return core.PaymentRecord{}, fmt.Errorf("invalid payment date %q", raw)
		}
		date = core.Date{Time: t}
	}

	invoiceRef := field("invoice_reference")
	if invoiceRef == "" {
		invoiceRef = fmt.Sprintf("INV-%d-%d", projectID, time.Now().UnixMilli())
	}

	return core.PaymentRecord{
		ProjectID:      projectID,
		Amount:         coerceMoney(field("amount")),
		PaidAmount:     coerceMoney(field("paid_amount")),
		Date:           date,
		Category:       category,
		Type:           paymentType,
		InvoiceRef:     invoiceRef,
		ContractorName: field("contractor_name"),
		ImportBatchID:  batchID,
	}, nil
}
