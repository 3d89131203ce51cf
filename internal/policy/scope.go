package policy

import (
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/pkg/apperror"
)

// ApplicationScope restricts an application listing to the records the actor
// may see. The restriction is applied by the store, never after the fact.
func (p *Policy) ApplicationScope(actor domain.Actor, query domain.ApplicationQuery) (domain.ApplicationFilter, error) {
	if err := p.Decide(actor, ActionApplicationList, Resource{}).Err("Not authorized to list applications"); err != nil {
		return domain.ApplicationFilter{}, err
	}

	filter := domain.ApplicationFilter{
		JobID:  query.JobID,
		Status: query.Status,
	}
	switch actor.Role {
	case domain.RoleJobSeeker:
		filter.ApplicantID = actor.ID
	case domain.RoleRecruiter:
		filter.RecruiterID = actor.ID
	}
	return filter, nil
}

// JobSearchScope returns the postedBy restriction for a job search. Active
// jobs are public; closed and draft jobs are only visible to the recruiter who
// posted them, so those searches are pinned to the actor.
func (p *Policy) JobSearchScope(actor domain.Actor, status domain.JobStatus) (string, error) {
	if status == "" || status == domain.JobStatusActive {
		return "", nil
	}
	if !actor.Authenticated() {
		return "", apperror.Unauthorized("Authentication required to search closed or draft jobs")
	}
	if actor.Role != domain.RoleRecruiter {
		return "", apperror.Forbidden("Only recruiters can search their closed or draft jobs")
	}
	return actor.ID, nil
}
