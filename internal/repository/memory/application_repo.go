package memory

import (
	"context"
	"jobconnect-backend/internal/domain"
	"sort"
)

type applicationRepo struct {
	s *Store
}

// Create checks and claims the (job, applicant) slot under the write lock, so
// concurrent creates for the same pair cannot both succeed.
func (r *applicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := appKey{jobID: app.JobID, applicantID: app.ApplicantID}
	if _, taken := r.s.appIndex[key]; taken {
		return domain.ErrDuplicate
	}
	if _, exists := r.s.applications[app.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.applications[app.ID] = copyApplication(*app)
	r.s.appIndex[key] = app.ID
	return nil
}

func (r *applicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	app = r.s.withRefs(app)
	return &app, nil
}

func (r *applicationRepo) List(_ context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	apps := make([]domain.Application, 0)
	for _, a := range r.s.applications {
		if filter.ApplicantID != "" && a.ApplicantID != filter.ApplicantID {
			continue
		}
		if filter.RecruiterID != "" {
			job, ok := r.s.jobs[a.JobID]
			if !ok || job.PostedBy != filter.RecruiterID {
				continue
			}
		}
		if filter.JobID != "" && a.JobID != filter.JobID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		apps = append(apps, r.s.withRefs(a))
	}
	sort.Slice(apps, func(i, k int) bool {
		if apps[i].AppliedAt.Equal(apps[k].AppliedAt) {
			return apps[i].ID < apps[k].ID
		}
		return apps[i].AppliedAt.After(apps[k].AppliedAt)
	})
	return apps, nil
}

func (r *applicationRepo) Update(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.applications[app.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyApplication(*app)
	current.Status = updated.Status
	current.ReviewedAt = updated.ReviewedAt
	current.Notes = updated.Notes
	r.s.applications[app.ID] = current
	return nil
}

func (r *applicationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.appIndex, appKey{jobID: app.JobID, applicantID: app.ApplicantID})
	delete(r.s.applications, id)
	return nil
}
