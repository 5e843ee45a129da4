package workflow

// Status is the primary lifecycle state of a purchase request.
type Status string

const (
	StatusPendingManager      Status = "pending_manager"
	StatusPendingFinance      Status = "pending_finance"
	StatusPendingDisbursement Status = "pending_disbursement"
	StatusPendingProcurement  Status = "pending_procurement"
	StatusCompleted           Status = "completed"
	// StatusApproved is a legacy terminal value kept for requests migrated
	// from the pre-procurement era. The forward path never produces it.
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Normalize maps an absent or unknown status to the initial state.
// Every consumer must see the same defaulted value, so this is applied
// once when a request is loaded or created, never at call sites.
func (s Status) Normalize() Status {
	switch s {
	case StatusPendingManager, StatusPendingFinance, StatusPendingDisbursement,
		StatusPendingProcurement, StatusCompleted, StatusApproved, StatusRejected:
		return s
	default:
		return StatusPendingManager
	}
}

// IsTerminal reports whether no further workflow action is allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsPending reports whether the request is waiting on some stage.
func (s Status) IsPending() bool {
	switch s {
	case StatusPendingManager, StatusPendingFinance, StatusPendingDisbursement, StatusPendingProcurement:
		return true
	default:
		return false
	}
}

// Next returns the status an approval advances to. ok is false for
// statuses with no forward transition (pending_procurement is advanced
// by the procurement axis, not by approve).
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPendingManager:
		return StatusPendingFinance, true
	case StatusPendingFinance:
		return StatusPendingDisbursement, true
	case StatusPendingDisbursement:
		return StatusPendingProcurement, true
	default:
		return s, false
	}
}

// Stage is the informational display label mirroring a status.
func (s Status) Stage() string {
	switch s {
	case StatusPendingManager:
		return "manager"
	case StatusPendingFinance:
		return "finance"
	case StatusPendingDisbursement:
		return "disbursement"
	case StatusPendingProcurement:
		return "procurement"
	default:
		return "done"
	}
}

// NextRole returns the role expected to act next, empty for terminal states.
func (s Status) NextRole() Role {
	r, ok := RequiredRole(s)
	if !ok {
		return ""
	}
	return r
}

func (s Status) String() string { return string(s) }
