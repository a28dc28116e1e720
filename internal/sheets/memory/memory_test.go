package memory

import (
	"context"
	"testing"

	ports "studioops/internal/sheets"
)

func TestUpsertAndDelete(t *testing.T) {
	w := NewWriter()
	ctx := context.Background()

	ref, err := w.UpsertRow(ctx, ports.ReportRow{ProjectID: 1, Name: "Showroom", TotalPaid: 500})
	if err != nil {
		t.Fatalf("UpsertRow: %v", err)
	}
	if ref == "" {
		t.Fatal("expected a row reference")
	}

	if _, err := w.UpsertRow(ctx, ports.ReportRow{ProjectID: 1, Name: "Showroom v2"}); err != nil {
		t.Fatalf("UpsertRow overwrite: %v", err)
	}
	if w.Len() != 1 {
		t.Fatalf("expected 1 row after overwrite, got %d", w.Len())
	}
	row, ok := w.Row(1)
	if !ok || row.Name != "Showroom v2" {
		t.Fatalf("unexpected row: %+v ok=%v", row, ok)
	}

	if err := w.DeleteRow(ctx, 1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if _, ok := w.Row(1); ok {
		t.Fatal("expected row removed")
	}

	// deleting a missing row is not an error
	if err := w.DeleteRow(ctx, 42); err != nil {
		t.Fatalf("DeleteRow missing: %v", err)
	}
}
