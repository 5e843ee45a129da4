package workflow

import (
	"errors"
	"testing"
)

func TestValidateProcurementUpdate(t *testing.T) {
	cases := []struct {
		name    string
		parent  Status
		next    ProcurementStatus
		note    string
		wantErr error
	}{
		{"cancel with note", StatusPendingProcurement, ProcurementCancelled, "out of stock", nil},
		{"purchase with note", StatusPendingProcurement, ProcurementPurchased, "done", nil},
		{"adjust with note", StatusPendingProcurement, ProcurementAdjusted, "qty changed", nil},
		{"note required on status change", StatusPendingProcurement, ProcurementCancelled, "  ", ErrProcurementNoteRequired},
		{"unknown status", StatusPendingProcurement, "ordered", "n", ErrInvalidProcurementStatus},
		{"wrong primary stage", StatusPendingFinance, ProcurementPurchased, "n", ErrNotAtProcurement},
		{"no status change needs no note", StatusPendingProcurement, "", "", nil},
		{"completed request may still be updated", StatusCompleted, ProcurementAdjusted, "late fix", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateProcurementUpdate(c.parent, c.next, c.note)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("ValidateProcurementUpdate() = %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestProcurementUpdateCloses(t *testing.T) {
	if !(ProcurementUpdate{Status: ProcurementPurchased}).Closes() {
		t.Error("purchased should close the request")
	}
	if !(ProcurementUpdate{Status: ProcurementCancelled, MarkCompleted: true}).Closes() {
		t.Error("mark_completed should close the request")
	}
	if (ProcurementUpdate{Status: ProcurementAdjusted}).Closes() {
		t.Error("adjusted alone should not close the request")
	}
}

func TestProcurementStatusNormalize(t *testing.T) {
	if got := ProcurementStatus("").Normalize(); got != ProcurementPending {
		t.Errorf("empty = %q, want pending", got)
	}
	if got := ProcurementPurchased.Normalize(); got != ProcurementPurchased {
		t.Errorf("purchased normalized to %q", got)
	}
}
