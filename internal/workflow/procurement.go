package workflow

import (
	"errors"
	"strings"
)

// ProcurementStatus is the secondary status axis tracked once a request
// reaches the procurement stage.
type ProcurementStatus string

const (
	ProcurementPending   ProcurementStatus = "pending"
	ProcurementAdjusted  ProcurementStatus = "adjusted"
	ProcurementPurchased ProcurementStatus = "purchased"
	ProcurementCancelled ProcurementStatus = "cancelled"
)

var (
	ErrInvalidProcurementStatus = errors.New("invalid procurement status")
	ErrNotAtProcurement         = errors.New("request is not at the procurement stage")
	ErrProcurementNoteRequired  = errors.New("a note is required for procurement updates")
)

// Normalize treats an absent procurement status as pending.
func (s ProcurementStatus) Normalize() ProcurementStatus {
	switch s {
	case ProcurementAdjusted, ProcurementPurchased, ProcurementCancelled:
		return s
	default:
		return ProcurementPending
	}
}

// ValidProcurementStatus reports whether s is a member of the closed set.
func ValidProcurementStatus(s ProcurementStatus) bool {
	switch s {
	case ProcurementPending, ProcurementAdjusted, ProcurementPurchased, ProcurementCancelled:
		return true
	}
	return false
}

// ProcurementUpdate is a validated procurement-stage change.
type ProcurementUpdate struct {
	Status        ProcurementStatus
	MarkCompleted bool
}

// Closes reports whether the update finishes the request, flipping the
// primary status to completed.
func (u ProcurementUpdate) Closes() bool {
	return u.MarkCompleted || u.Status == ProcurementPurchased
}

// ValidateProcurementUpdate checks a requested secondary-axis change.
// parent must already be at (or past) the procurement stage, and every
// status change carries a non-blank note.
func ValidateProcurementUpdate(parent Status, next ProcurementStatus, note string) error {
	p := parent.Normalize()
	if p != StatusPendingProcurement && p != StatusCompleted {
		return ErrNotAtProcurement
	}
	if next != "" && !ValidProcurementStatus(next) {
		return ErrInvalidProcurementStatus
	}
	if next != "" && strings.TrimSpace(note) == "" {
		return ErrProcurementNoteRequired
	}
	return nil
}
