package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

const DefaultCurrency = "USD"

type Salary struct {
	Min      *float64 `json:"min,omitempty" validate:"omitempty,gte=0"`
	Max      *float64 `json:"max,omitempty" validate:"omitempty,gte=0"`
	Currency string   `json:"currency" validate:"omitempty,len=3"`
}

type Requirements struct {
	Experience string   `json:"experience,omitempty" validate:"omitempty,max=100"`
	Education  string   `json:"education,omitempty" validate:"omitempty,max=100"`
	Skills     []string `json:"skills" validate:"omitempty,dive,max=50"`
}

type Job struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	Type                JobType      `json:"type"`
	Salary              Salary       `json:"salary"`
	Requirements        Requirements `json:"requirements"`
	PostedBy            string       `json:"posted_by"`
	Status              JobStatus    `json:"status"`
	ApplicationDeadline *time.Time   `json:"application_deadline,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	// Joined poster data for list and detail responses
	Poster *UserSummary `json:"poster,omitempty"`
}

// JobSummary is the projection of a job embedded in application responses.
type JobSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location"`
	Type     JobType   `json:"type"`
	Status   JobStatus `json:"status"`
	PostedBy string    `json:"posted_by"`
}

func (j *Job) Summary() *JobSummary {
	return &JobSummary{
		ID:       j.ID,
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		Type:     j.Type,
		Status:   j.Status,
		PostedBy: j.PostedBy,
	}
}

// JobInput carries the fields of a new job posting.
type JobInput struct {
	Title               string       `json:"title" validate:"required,max=100"`
	Description         string       `json:"description" validate:"required"`
	Company             string       `json:"company" validate:"required"`
	Location            string       `json:"location" validate:"required"`
	Type                JobType      `json:"type" validate:"required,job_type"`
	Salary              Salary       `json:"salary"`
	Requirements        Requirements `json:"requirements"`
	Status              JobStatus    `json:"status" validate:"omitempty,job_status"`
	ApplicationDeadline *time.Time   `json:"application_deadline"`
}

// JobPatch is a partial update; nil fields are left untouched.
type JobPatch struct {
	Title               *string       `json:"title" validate:"omitempty,min=1,max=100"`
	Description         *string       `json:"description" validate:"omitempty,min=1"`
	Company             *string       `json:"company" validate:"omitempty,min=1"`
	Location            *string       `json:"location" validate:"omitempty,min=1"`
	Type                *JobType      `json:"type" validate:"omitempty,job_type"`
	Salary              *Salary       `json:"salary"`
	Requirements        *Requirements `json:"requirements"`
	Status              *JobStatus    `json:"status" validate:"omitempty,job_status"`
	ApplicationDeadline *time.Time    `json:"application_deadline"`
}

// JobSearch holds the public search parameters.
type JobSearch struct {
	Text     string
	Type     JobType
	Location string
	Status   JobStatus
	Page     int
	PageSize int
}

// JobFilter is the store-level query derived from a JobSearch.
type JobFilter struct {
	Text     string
	Type     JobType
	Location string
	Status   JobStatus
	PostedBy string
	Limit    int
	Offset   int
}

type JobPage struct {
	Jobs      []Job `json:"jobs"`
	Count     int   `json:"count"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	PageCount int   `json:"pages"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	Search(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	ListByPoster(ctx context.Context, postedBy string) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, actor Actor, input JobInput) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	SearchJobs(ctx context.Context, actor Actor, search JobSearch) (*JobPage, error)
	ListMyJobs(ctx context.Context, actor Actor) ([]Job, error)
	UpdateJob(ctx context.Context, actor Actor, id string, patch JobPatch) (*Job, error)
	DeleteJob(ctx context.Context, actor Actor, id string) error
}
