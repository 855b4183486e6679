package service

import (
	"slices"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/structs"
)

// Operation names a guarded service operation.
type Operation string

const (
	OpJobSubmit       Operation = "job.submit"
	OpJobApprove      Operation = "job.approve"
	OpJobApproveMany  Operation = "job.approve_many"
	OpJobReject       Operation = "job.reject"
	OpJobUpdate       Operation = "job.update"
	OpJobExtend       Operation = "job.extend_deadline"
	OpJobDelete       Operation = "job.delete"
	OpJobGet          Operation = "job.get"
	OpJobListMine     Operation = "job.list_mine"
	OpJobListPending  Operation = "job.list_pending"
	OpStats           Operation = "admin.stats"
	OpEventList       Operation = "admin.events"
	OpAppSubmit       Operation = "application.submit"
	OpAppUpdateStatus Operation = "application.update_status"
	OpAppDelete       Operation = "application.delete"
	OpAppRespond      Operation = "application.interview_response"
	OpAppListEmployer Operation = "application.list_employer"
	OpAppListSeeker   Operation = "application.list_applicant"
	OpNotifyList      Operation = "notification.list"
	OpNotifyRead      Operation = "notification.read"
	OpNotifyDelete    Operation = "notification.delete"
	OpProfile         Operation = "user.profile"
)

// Rule is the access rule of an operation. Empty Roles admits any
// authenticated user. Owner requires the actor to own the target.
type Rule struct {
	Roles []structs.Role
	Owner bool
}

var (
	anyone     []structs.Role
	admins     = []structs.Role{structs.RoleAdmin}
	employers  = []structs.Role{structs.RoleEmployer}
	seekers    = []structs.Role{structs.RoleJobSeeker}
	publishers = []structs.Role{structs.RoleEmployer, structs.RoleAdmin}
)

var policy = map[Operation]Rule{
	OpJobSubmit:       {Roles: publishers},
	OpJobApprove:      {Roles: admins},
	OpJobApproveMany:  {Roles: admins},
	OpJobReject:       {Roles: admins},
	OpJobUpdate:       {Roles: employers, Owner: true},
	OpJobExtend:       {Roles: employers, Owner: true},
	OpJobDelete:       {Roles: employers, Owner: true},
	OpJobGet:          {Roles: anyone},
	OpJobListMine:     {Roles: employers},
	OpJobListPending:  {Roles: admins},
	OpStats:           {Roles: admins},
	OpEventList:       {Roles: admins},
	OpAppSubmit:       {Roles: seekers},
	OpAppUpdateStatus: {Roles: employers, Owner: true},
	OpAppDelete:       {Roles: seekers, Owner: true},
	OpAppRespond:      {Roles: seekers, Owner: true},
	OpAppListEmployer: {Roles: employers},
	OpAppListSeeker:   {Roles: seekers},
	OpNotifyList:      {Roles: anyone},
	OpNotifyRead:      {Roles: anyone, Owner: true},
	OpNotifyDelete:    {Roles: anyone, Owner: true},
	OpProfile:         {Roles: anyone},
}

// Allow checks the role part of the rule of op. It runs before any lookup.
func Allow(actor Actor, op Operation) error {
	if actor.ID == "" {
		return ecode.NewUnauthorizedError("")
	}
	rule, ok := policy[op]
	if !ok {
		return ecode.NewForbiddenError("operation not permitted")
	}
	if len(rule.Roles) > 0 && !slices.Contains(rule.Roles, actor.Role) {
		return ecode.NewForbiddenError(string(actor.Role) + " is not allowed to perform " + string(op))
	}
	return nil
}

// Owns checks the ownership part of the rule of op against the owner of the
// loaded target.
func Owns(actor Actor, op Operation, ownerID string) error {
	if rule := policy[op]; rule.Owner && ownerID != actor.ID {
		return ecode.NewForbiddenError("you do not own this resource")
	}
	return nil
}
