// Package memory is an in-process store used by the memory storage driver
// and by tests. It honours the same uniqueness rules as the Postgres schema.
package memory

import (
	"jobconnect-backend/internal/domain"
	"sort"
	"sync"
)

type appKey struct {
	jobID       string
	applicantID string
}

// Store holds all three collections behind one lock so joined reads see a
// consistent snapshot.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	emails       map[string]string
	jobs         map[string]domain.Job
	applications map[string]domain.Application
	appIndex     map[appKey]string
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		emails:       make(map[string]string),
		jobs:         make(map[string]domain.Job),
		applications: make(map[string]domain.Application),
		appIndex:     make(map[appKey]string),
	}
}

func (s *Store) Users() domain.UserRepository { return &userRepo{s: s} }

func (s *Store) Jobs() domain.JobRepository { return &jobRepo{s: s} }

func (s *Store) Applications() domain.ApplicationRepository { return &applicationRepo{s: s} }

func copyJob(j domain.Job) domain.Job {
	if j.Requirements.Skills != nil {
		j.Requirements.Skills = append([]string{}, j.Requirements.Skills...)
	} else {
		j.Requirements.Skills = []string{}
	}
	if j.Salary.Min != nil {
		v := *j.Salary.Min
		j.Salary.Min = &v
	}
	if j.Salary.Max != nil {
		v := *j.Salary.Max
		j.Salary.Max = &v
	}
	if j.ApplicationDeadline != nil {
		v := *j.ApplicationDeadline
		j.ApplicationDeadline = &v
	}
	j.Poster = nil
	return j
}

func copyApplication(a domain.Application) domain.Application {
	if a.Resume != nil {
		r := *a.Resume
		a.Resume = &r
	}
	if a.ReviewedAt != nil {
		v := *a.ReviewedAt
		a.ReviewedAt = &v
	}
	a.Job = nil
	a.Applicant = nil
	return a
}

// Callers must hold s.mu.
func (s *Store) withPoster(j domain.Job) domain.Job {
	j = copyJob(j)
	if u, ok := s.users[j.PostedBy]; ok {
		j.Poster = u.Summary()
	}
	return j
}

// Callers must hold s.mu.
func (s *Store) withRefs(a domain.Application) domain.Application {
	a = copyApplication(a)
	if j, ok := s.jobs[a.JobID]; ok {
		a.Job = j.Summary()
	}
	if u, ok := s.users[a.ApplicantID]; ok {
		a.Applicant = u.Summary()
	}
	return a
}

func sortJobs(jobs []domain.Job) {
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].ID < jobs[k].ID
		}
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
}
