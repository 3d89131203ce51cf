package memory

import (
	"context"
	"jobconnect-backend/internal/domain"
	"strings"
)

type jobRepo struct {
	s *Store
}

func (r *jobRepo) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.jobs[job.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.jobs[job.ID] = copyJob(*job)
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	job = r.s.withPoster(job)
	return &job, nil
}

// Search mirrors the SQL search: any text term may match title, description
// or company; location is a case-insensitive substring.
func (r *jobRepo) Search(_ context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(filter.Text))
	location := strings.ToLower(strings.TrimSpace(filter.Location))

	matched := make([]domain.Job, 0)
	for _, j := range r.s.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.Type != "" && j.Type != filter.Type {
			continue
		}
		if filter.PostedBy != "" && j.PostedBy != filter.PostedBy {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(j.Location), location) {
			continue
		}
		if len(terms) > 0 && !matchesAny(j, terms) {
			continue
		}
		matched = append(matched, j)
	}
	sortJobs(matched)

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}

	page := make([]domain.Job, 0, end-start)
	for _, j := range matched[start:end] {
		page = append(page, r.s.withPoster(j))
	}
	return page, total, nil
}

func matchesAny(j domain.Job, terms []string) bool {
	text := strings.ToLower(j.Title + " " + j.Description + " " + j.Company)
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (r *jobRepo) ListByPoster(_ context.Context, postedBy string) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	jobs := make([]domain.Job, 0)
	for _, j := range r.s.jobs {
		if j.PostedBy == postedBy {
			jobs = append(jobs, r.s.withPoster(j))
		}
	}
	sortJobs(jobs)
	return jobs, nil
}

func (r *jobRepo) Update(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyJob(*job)
	updated.PostedBy = current.PostedBy
	updated.CreatedAt = current.CreatedAt
	r.s.jobs[job.ID] = updated
	return nil
}

// Delete removes only the job. Applications referencing it are kept.
func (r *jobRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}
