// Package policy decides who may see or mutate which records. Every
// authorization check in the usecases goes through Decide so the rules can be
// tested without a transport or a store.
package policy

import (
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/pkg/apperror"
)

type Action string

const (
	ActionJobRead   Action = "job:read"
	ActionJobCreate Action = "job:create"
	ActionJobUpdate Action = "job:update"
	ActionJobDelete Action = "job:delete"

	ActionApplicationCreate Action = "application:create"
	ActionApplicationRead   Action = "application:read"
	ActionApplicationList   Action = "application:list"
	ActionApplicationUpdate Action = "application:update"
	ActionApplicationDelete Action = "application:delete"
	ActionApplicationExport Action = "application:export"
	ActionResumeUpload      Action = "application:upload_resume"

	ActionUserRead   Action = "user:read"
	ActionUserList   Action = "user:list"
	ActionUserUpdate Action = "user:update"
	ActionUserDelete Action = "user:delete"
)

type Reason string

const (
	ReasonForbidden       Reason = "forbidden"
	ReasonNotFound        Reason = "not_found"
	ReasonInvalidState    Reason = "invalid_state"
	ReasonDuplicate       Reason = "duplicate"
	ReasonUnauthenticated Reason = "unauthenticated"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Err converts a denial into the matching client-facing error. It returns
// nil for an allowed decision.
func (d Decision) Err(message string) error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotFound:
		return apperror.NotFound(message)
	case ReasonInvalidState:
		return apperror.InvalidState(message)
	case ReasonDuplicate:
		return apperror.Duplicate(message)
	case ReasonUnauthenticated:
		return apperror.Unauthorized("Authentication required")
	default:
		return apperror.Forbidden(message)
	}
}

// Resource is the target of an action. Only the fields relevant to the action
// need to be set.
type Resource struct {
	// Job is the target job for job actions and for application:create.
	// Nil means the referenced job does not exist.
	Job *domain.Job

	Application *domain.Application
	// JobOwnerID is postedBy of the job the application references. Empty
	// when that job no longer exists.
	JobOwnerID string

	// AlreadyApplied reports an existing application for (job, actor).
	AlreadyApplied bool

	// UserID is the target user record.
	UserID string
}

type Policy struct {
	recruitersManageUsers bool
}

// New builds a policy. recruitersManageUsers keeps the rule that lets any
// recruiter update or delete any user record.
func New(recruitersManageUsers bool) *Policy {
	return &Policy{recruitersManageUsers: recruitersManageUsers}
}

// Default returns the policy with every rule enabled.
func Default() *Policy {
	return New(true)
}

// Decide evaluates the rule for action. Rules are checked in order and the
// first match wins.
func (p *Policy) Decide(actor domain.Actor, action Action, res Resource) Decision {
	if action == ActionJobRead {
		return allow()
	}
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	switch action {
	case ActionJobCreate:
		if actor.Role == domain.RoleRecruiter {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionJobUpdate, ActionJobDelete:
		if res.Job == nil {
			return deny(ReasonNotFound)
		}
		if actor.Role == domain.RoleRecruiter && actor.ID == res.Job.PostedBy {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionApplicationCreate:
		if actor.Role != domain.RoleJobSeeker {
			return deny(ReasonForbidden)
		}
		if res.Job == nil {
			return deny(ReasonNotFound)
		}
		if res.Job.Status != domain.JobStatusActive {
			return deny(ReasonInvalidState)
		}
		if res.AlreadyApplied {
			return deny(ReasonDuplicate)
		}
		return allow()

	case ActionApplicationRead:
		if res.Application == nil {
			return deny(ReasonNotFound)
		}
		if actor.Role == domain.RoleJobSeeker && actor.ID == res.Application.ApplicantID {
			return allow()
		}
		if actor.Role == domain.RoleRecruiter && res.JobOwnerID != "" && actor.ID == res.JobOwnerID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionApplicationList:
		if actor.Role == domain.RoleJobSeeker || actor.Role == domain.RoleRecruiter {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionApplicationExport:
		if actor.Role == domain.RoleRecruiter {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionResumeUpload:
		if actor.Role == domain.RoleJobSeeker {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionApplicationUpdate:
		if res.Application == nil {
			return deny(ReasonNotFound)
		}
		if actor.Role == domain.RoleRecruiter && res.JobOwnerID != "" && actor.ID == res.JobOwnerID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionApplicationDelete:
		if res.Application == nil {
			return deny(ReasonNotFound)
		}
		if actor.ID == res.Application.ApplicantID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionUserRead:
		if actor.ID == res.UserID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionUserList:
		if actor.Role == domain.RoleRecruiter {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionUserUpdate, ActionUserDelete:
		if actor.ID == res.UserID {
			return allow()
		}
		if p.recruitersManageUsers && actor.Role == domain.RoleRecruiter {
			return allow()
		}
		return deny(ReasonForbidden)
	}

	return deny(ReasonForbidden)
}
