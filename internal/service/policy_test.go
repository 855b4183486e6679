package service

import (
	"testing"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/structs"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		actor Actor
		op    Operation
		code  int
	}{
		{Actor{}, OpJobGet, ecode.Unauthorized},
		{seeker, OpJobGet, ecode.OK},
		{seeker, OpJobSubmit, ecode.AccessDenied},
		{employer, OpJobSubmit, ecode.OK},
		{admin, OpJobSubmit, ecode.OK},
		{employer, OpJobApprove, ecode.AccessDenied},
		{admin, OpJobApprove, ecode.OK},
		{admin, OpJobUpdate, ecode.AccessDenied},
		{employer, OpAppSubmit, ecode.AccessDenied},
		{seeker, OpAppSubmit, ecode.OK},
		{seeker, OpAppUpdateStatus, ecode.AccessDenied},
		{admin, OpStats, ecode.OK},
		{seeker, OpNotifyList, ecode.OK},
		{Actor{ID: "x", Role: structs.RoleAdmin}, "unknown.op", ecode.AccessDenied},
	}
	for _, tt := range tests {
		t.Run(string(tt.actor.Role)+"/"+string(tt.op), func(t *testing.T) {
			if got := ecode.CodeOf(Allow(tt.actor, tt.op)); got != tt.code {
				t.Errorf("Allow() code = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestOwns(t *testing.T) {
	if err := Owns(employer, OpJobUpdate, employer.ID); err != nil {
		t.Errorf("Owns() owner error = %v", err)
	}
	if got := ecode.CodeOf(Owns(rival, OpJobUpdate, employer.ID)); got != ecode.AccessDenied {
		t.Errorf("Owns() code = %d, want %d", got, ecode.AccessDenied)
	}
	// rules without ownership ignore the owner
	if err := Owns(admin, OpJobApprove, employer.ID); err != nil {
		t.Errorf("Owns() error = %v", err)
	}
}

func TestPolicyCoversOperations(t *testing.T) {
	for _, op := range []Operation{
		OpJobSubmit, OpJobApprove, OpJobApproveMany, OpJobReject, OpJobUpdate, OpJobExtend,
		OpJobDelete, OpJobGet, OpJobListMine, OpJobListPending, OpStats, OpEventList,
		OpAppSubmit, OpAppUpdateStatus, OpAppDelete, OpAppRespond, OpAppListEmployer,
		OpAppListSeeker, OpNotifyList, OpNotifyRead, OpNotifyDelete, OpProfile,
	} {
		if _, ok := policy[op]; !ok {
			t.Errorf("no rule for %s", op)
		}
	}
}
