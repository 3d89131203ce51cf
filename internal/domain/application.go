package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

// Application status constants. Any transition between them is legal.
const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusAccepted:
		return true
	}
	return false
}

const MaxCoverLetterLength = 2000

type Resume struct {
	URL      string `json:"url" validate:"omitempty,url"`
	FileName string `json:"file_name" validate:"omitempty,max=255"`
}

// Application represents a job seeker's application to a job
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	ApplicantID string            `json:"applicant_id"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	Resume      *Resume           `json:"resume,omitempty"`
	AppliedAt   time.Time         `json:"applied_at"`
	ReviewedAt  *time.Time        `json:"reviewed_at"`
	Notes       string            `json:"notes,omitempty"`

	// Joined data for list and detail responses. Job is nil once the job
	// has been deleted.
	Job       *JobSummary  `json:"job,omitempty"`
	Applicant *UserSummary `json:"applicant,omitempty"`
}

// SetStatus moves the application to status. Any status other than pending
// stamps ReviewedAt; pending clears it.
func (a *Application) SetStatus(status ApplicationStatus, now time.Time) {
	a.Status = status
	if status == ApplicationStatusPending {
		a.ReviewedAt = nil
		return
	}
	reviewed := now
	a.ReviewedAt = &reviewed
}

type ApplyInput struct {
	JobID       string  `json:"job" validate:"required"`
	CoverLetter string  `json:"cover_letter" validate:"max=2000"`
	Resume      *Resume `json:"resume"`
}

type StatusUpdate struct {
	Status ApplicationStatus `json:"status" validate:"required,application_status"`
	Notes  *string           `json:"notes" validate:"omitempty,max=2000"`
}

// ApplicationQuery holds the optional filters a caller may add to a listing.
type ApplicationQuery struct {
	Status ApplicationStatus
	JobID  string
}

// ApplicationFilter is the store-level query. ApplicantID and RecruiterID
// carry the server-side scope; at least one of them is always set by callers
// outside the store.
type ApplicationFilter struct {
	ApplicantID string
	RecruiterID string
	JobID       string
	Status      ApplicationStatus
}

type ResumeUploadInput struct {
	FileName string `json:"file_name" validate:"required,max=255"`
}

// ResumeUpload is a presigned upload target and the resume reference to
// submit with the application once the upload completes.
type ResumeUpload struct {
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
	Resume    Resume    `json:"resume"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id string) error
}

type ApplicationUsecase interface {
	// Job seeker operations
	Apply(ctx context.Context, actor Actor, input ApplyInput) (*Application, error)
	Withdraw(ctx context.Context, actor Actor, id string) error
	PrepareResumeUpload(ctx context.Context, actor Actor, input ResumeUploadInput) (*ResumeUpload, error)

	// Shared, scoped by role
	List(ctx context.Context, actor Actor, query ApplicationQuery) ([]Application, error)
	Get(ctx context.Context, actor Actor, id string) (*Application, error)

	// Recruiter operations
	SetStatus(ctx context.Context, actor Actor, id string, update StatusUpdate) (*Application, error)
	Export(ctx context.Context, actor Actor, query ApplicationQuery) ([]byte, error)
}

// ResumeStorage issues upload targets for resume files.
type ResumeStorage interface {
	PresignUpload(ctx context.Context, key, fileName string) (*ResumeUpload, error)
}
