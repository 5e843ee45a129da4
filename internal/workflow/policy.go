package workflow

import "errors"

// Policy errors surfaced verbatim to the client.
var (
	ErrFinished        = errors.New("request already finished")
	ErrUnknownStatus   = errors.New("unknown request status")
	ErrWrongStage      = errors.New("request is not at your stage")
	ErrWrongDepartment = errors.New("managers may only act on requests from their own department")
	ErrOwnRequest      = errors.New("you cannot approve your own request")
	ErrInvalidAction   = errors.New("invalid action")
	// The procurement stage closes through procurement updates (purchase,
	// cancel), never through a bare approve.
	ErrApproveAtProcurement = errors.New("procurement requests are closed via procurement updates, not approve")
)

// Actor identifies the user attempting a workflow action.
type Actor struct {
	Username   string
	Role       Role
	Department string
}

// Snapshot is the minimal view of a request the policy needs.
type Snapshot struct {
	Status     Status
	Department string
	CreatedBy  string
}

// CanAct decides whether an actor may approve or reject a request in its
// current state. It returns the effective role the action is recorded
// under (admins act as the stage's required role).
//
// Both conditions of the visibility invariant are checked here: the live
// status, not the list the request was reached from, decides legality.
func CanAct(a Actor, req Snapshot) (Role, error) {
	status := req.Status.Normalize()

	if status.IsTerminal() {
		return "", ErrFinished
	}

	required, ok := RequiredRole(status)
	if !ok {
		return "", ErrUnknownStatus
	}

	if a.Role == RoleAdmin {
		return required, nil
	}

	if a.Role != required {
		return "", ErrWrongStage
	}

	// Manager stage only: managers are scoped to their own department and
	// may not clear their own submissions.
	if status == StatusPendingManager {
		if a.Department != req.Department {
			return "", ErrWrongDepartment
		}
		if a.Username != "" && a.Username == req.CreatedBy {
			return "", ErrOwnRequest
		}
	}

	return required, nil
}

// InQueue reports whether a request belongs in the given actor's work
// queue. Mirrors CanAct's stage filter without the per-action guards.
func InQueue(a Actor, req Snapshot) bool {
	status := req.Status.Normalize()

	switch a.Role {
	case RoleAdmin:
		return !status.IsTerminal()
	case RoleRequester:
		return a.Username != "" && a.Username == req.CreatedBy
	case RoleManager:
		return status == StatusPendingManager && a.Department == req.Department
	default:
		qs, ok := QueueStatus(a.Role)
		return ok && status == qs
	}
}

// Advance computes the status reached by one approval, auto-approving any
// following stage whose assigned approver is the actor who just approved.
// approverFor resolves the username expected to act on a status; a
// resolver returning "" stops the skip chain. The returned slice lists
// the statuses that were skipped, in order, for the approval history.
func Advance(current Status, actor string, approverFor func(Status) string) (Status, []Status) {
	next, ok := current.Next()
	if !ok {
		return current, nil
	}

	var skipped []Status
	for {
		if !next.IsPending() {
			break
		}
		assignee := ""
		if approverFor != nil {
			assignee = approverFor(next)
		}
		if assignee == "" || assignee != actor {
			break
		}
		after, ok := next.Next()
		if !ok {
			break
		}
		skipped = append(skipped, next)
		next = after
	}

	return next, skipped
}
