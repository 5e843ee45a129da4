package workflow

// Role is a user's position in the approval pipeline.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleFinance      Role = "finance"
	RoleDisbursement Role = "disbursement"
	RoleProcurement  Role = "procurement"
	RoleRequester    Role = "requester"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleFinance, RoleDisbursement, RoleProcurement, RoleRequester:
		return true
	}
	return false
}

// RequiredRole returns the role that must act on a request in the given
// status. ok is false for terminal states.
func RequiredRole(s Status) (Role, bool) {
	switch s {
	case StatusPendingManager:
		return RoleManager, true
	case StatusPendingFinance:
		return RoleFinance, true
	case StatusPendingDisbursement:
		return RoleDisbursement, true
	case StatusPendingProcurement:
		return RoleProcurement, true
	default:
		return "", false
	}
}

// QueueStatus returns the status a role's work queue filters on.
// ok is false for roles without a stage queue (admin, requester).
func QueueStatus(r Role) (Status, bool) {
	switch r {
	case RoleManager:
		return StatusPendingManager, true
	case RoleFinance:
		return StatusPendingFinance, true
	case RoleDisbursement:
		return StatusPendingDisbursement, true
	case RoleProcurement:
		return StatusPendingProcurement, true
	default:
		return "", false
	}
}

// DashboardRoute maps a role to its dashboard path. Kept in one place so
// login and redirect handling never disagree.
func DashboardRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleManager:
		return "/manager"
	case RoleFinance:
		return "/finance"
	case RoleDisbursement:
		return "/disbursement"
	case RoleProcurement:
		return "/procurement"
	default:
		return "/requester"
	}
}

// CanPrint reports whether the requester view may print a request in the
// given status.
func CanPrint(s Status) bool {
	switch s {
	case StatusApproved, StatusCompleted, StatusPendingProcurement:
		return true
	default:
		return false
	}
}
