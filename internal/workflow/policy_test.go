package workflow

import (
	"errors"
	"testing"
)

func TestCanAct(t *testing.T) {
	hrManager := Actor{Username: "manager_hr", Role: RoleManager, Department: "HR"}
	finance := Actor{Username: "manager_finance", Role: RoleFinance}
	admin := Actor{Username: "root", Role: RoleAdmin}

	cases := []struct {
		name     string
		actor    Actor
		req      Snapshot
		wantRole Role
		wantErr  error
	}{
		{
			name:     "manager acts on own department pending_manager",
			actor:    hrManager,
			req:      Snapshot{Status: StatusPendingManager, Department: "HR", CreatedBy: "requester_hr"},
			wantRole: RoleManager,
		},
		{
			name:     "absent status defaults to pending_manager",
			actor:    hrManager,
			req:      Snapshot{Status: "", Department: "HR", CreatedBy: "requester_hr"},
			wantRole: RoleManager,
		},
		{
			name:    "manager blocked on another department",
			actor:   hrManager,
			req:     Snapshot{Status: StatusPendingManager, Department: "Ops", CreatedBy: "x"},
			wantErr: ErrWrongDepartment,
		},
		{
			name:    "manager blocked on own submission",
			actor:   hrManager,
			req:     Snapshot{Status: StatusPendingManager, Department: "HR", CreatedBy: "manager_hr"},
			wantErr: ErrOwnRequest,
		},
		{
			name:    "manager blocked past their stage",
			actor:   hrManager,
			req:     Snapshot{Status: StatusPendingFinance, Department: "HR"},
			wantErr: ErrWrongStage,
		},
		{
			name:     "finance acts on pending_finance regardless of department",
			actor:    finance,
			req:      Snapshot{Status: StatusPendingFinance, Department: "Ops"},
			wantRole: RoleFinance,
		},
		{
			name:    "finance blocked on pending_manager",
			actor:   finance,
			req:     Snapshot{Status: StatusPendingManager, Department: "Ops"},
			wantErr: ErrWrongStage,
		},
		{
			name:     "admin acts as the stage role",
			actor:    admin,
			req:      Snapshot{Status: StatusPendingDisbursement},
			wantRole: RoleDisbursement,
		},
		{
			name:    "rejected request is finished even for admin",
			actor:   admin,
			req:     Snapshot{Status: StatusRejected},
			wantErr: ErrFinished,
		},
		{
			name:    "completed request is finished",
			actor:   finance,
			req:     Snapshot{Status: StatusCompleted},
			wantErr: ErrFinished,
		},
		{
			name:    "requester cannot approve",
			actor:   Actor{Username: "requester_hr", Role: RoleRequester, Department: "HR"},
			req:     Snapshot{Status: StatusPendingManager, Department: "HR"},
			wantErr: ErrWrongStage,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			role, err := CanAct(c.actor, c.req)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("CanAct() error = %v, want %v", err, c.wantErr)
			}
			if err == nil && role != c.wantRole {
				t.Errorf("CanAct() role = %q, want %q", role, c.wantRole)
			}
		})
	}
}

func TestInQueue(t *testing.T) {
	req := Snapshot{Status: StatusPendingFinance, Department: "HR", CreatedBy: "requester_hr"}

	cases := []struct {
		name  string
		actor Actor
		req   Snapshot
		want  bool
	}{
		{"finance sees pending_finance", Actor{Role: RoleFinance}, req, true},
		{"manager does not see pending_finance", Actor{Role: RoleManager, Department: "HR"}, req, false},
		{"manager sees own department pending_manager", Actor{Role: RoleManager, Department: "HR"},
			Snapshot{Status: StatusPendingManager, Department: "HR"}, true},
		{"manager does not see other department", Actor{Role: RoleManager, Department: "Ops"},
			Snapshot{Status: StatusPendingManager, Department: "HR"}, false},
		{"defaulted status lands only in manager queue", Actor{Role: RoleManager, Department: "HR"},
			Snapshot{Status: "", Department: "HR"}, true},
		{"defaulted status not in finance queue", Actor{Role: RoleFinance},
			Snapshot{Status: "", Department: "HR"}, false},
		{"admin sees any non-terminal", Actor{Role: RoleAdmin}, req, true},
		{"admin does not see rejected", Actor{Role: RoleAdmin}, Snapshot{Status: StatusRejected}, false},
		{"requester sees own request", Actor{Username: "requester_hr", Role: RoleRequester}, req, true},
		{"requester does not see others", Actor{Username: "someone", Role: RoleRequester}, req, false},
		{"procurement sees pending_procurement", Actor{Role: RoleProcurement},
			Snapshot{Status: StatusPendingProcurement}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := InQueue(c.actor, c.req); got != c.want {
				t.Errorf("InQueue() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAdvanceAutoSkipsSameApprover(t *testing.T) {
	assignees := map[Status]string{
		StatusPendingFinance:      "manager_finance",
		StatusPendingDisbursement: "manager_exec",
	}
	resolver := func(s Status) string { return assignees[s] }

	// Ordinary manager approval advances a single stage.
	next, skipped := Advance(StatusPendingManager, "manager_hr", resolver)
	if next != StatusPendingFinance || len(skipped) != 0 {
		t.Fatalf("Advance(manager_hr) = (%q, %v), want (pending_finance, none)", next, skipped)
	}

	// The finance manager approving as direct manager skips the finance stage.
	next, skipped = Advance(StatusPendingManager, "manager_finance", resolver)
	if next != StatusPendingDisbursement {
		t.Fatalf("Advance(manager_finance) = %q, want pending_disbursement", next)
	}
	if len(skipped) != 1 || skipped[0] != StatusPendingFinance {
		t.Fatalf("skipped = %v, want [pending_finance]", skipped)
	}

	// No resolver: plain single-step advance.
	next, skipped = Advance(StatusPendingFinance, "manager_finance", nil)
	if next != StatusPendingDisbursement || len(skipped) != 0 {
		t.Fatalf("Advance(nil resolver) = (%q, %v)", next, skipped)
	}

	// Terminal and procurement statuses do not advance.
	if next, _ := Advance(StatusPendingProcurement, "anyone", resolver); next != StatusPendingProcurement {
		t.Errorf("pending_procurement advanced to %q", next)
	}
	if next, _ := Advance(StatusRejected, "anyone", resolver); next != StatusRejected {
		t.Errorf("rejected advanced to %q", next)
	}
}
