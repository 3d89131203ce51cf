package usecase

import (
	"context"
	"errors"
	"fmt"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/policy"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/audit"
	"jobconnect-backend/pkg/events"
	"jobconnect-backend/pkg/export"
	"jobconnect-backend/pkg/validation"
	"path"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type applicationUsecase struct {
	appRepo  domain.ApplicationRepository
	jobRepo  domain.JobRepository
	resumes  domain.ResumeStorage
	validate *validator.Validate
	deps     Deps
}

// NewApplicationUsecase wires the application tracker. resumes may be nil when
// no object storage is configured; resume upload requests then fail as
// unavailable.
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	resumes domain.ResumeStorage,
	validate *validator.Validate,
	deps Deps,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		resumes:  resumes,
		validate: validate,
		deps:     deps.withDefaults(),
	}
}

func applyDenial(decision policy.Decision) error {
	switch decision.Reason {
	case policy.ReasonNotFound:
		return apperror.NotFound("Job not found")
	case policy.ReasonInvalidState:
		return apperror.InvalidState("Cannot apply to inactive job")
	case policy.ReasonDuplicate:
		return apperror.Duplicate("You have already applied to this job")
	default:
		return decision.Err("Only job seekers can apply to jobs")
	}
}

// Apply submits an application. The one-per-job rule is enforced by the
// store at insert time; a rejected insert is reported as a duplicate.
func (u *applicationUsecase) Apply(ctx context.Context, actor domain.Actor, input domain.ApplyInput) (*domain.Application, error) {
	input.JobID = strings.TrimSpace(input.JobID)
	if err := u.validate.Struct(input); err != nil {
		return nil, validation.FromError(err)
	}

	job, err := u.jobRepo.GetByID(ctx, input.JobID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	res := policy.Resource{Job: job}
	decision := u.deps.Policy.Decide(actor, policy.ActionApplicationCreate, res)
	if !decision.Allowed {
		if decision.Reason == policy.ReasonForbidden || decision.Reason == policy.ReasonUnauthenticated {
			u.deps.Audit.AccessDenied(ctx, actor.ID, string(policy.ActionApplicationCreate), input.JobID, string(decision.Reason))
		}
		return nil, applyDenial(decision)
	}

	app := &domain.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		ApplicantID: actor.ID,
		Status:      domain.ApplicationStatusPending,
		CoverLetter: input.CoverLetter,
		Resume:      input.Resume,
		AppliedAt:   u.deps.now(),
	}

	if err := u.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			res.AlreadyApplied = true
			u.deps.Audit.Log(ctx, audit.Event{
				Event:        audit.EventDuplicateApply,
				SubjectType:  "user_id",
				SubjectValue: actor.ID,
				Details:      map[string]interface{}{"job_id": job.ID},
			})
			return nil, applyDenial(u.deps.Policy.Decide(actor, policy.ActionApplicationCreate, res))
		}
		return nil, apperror.Internal(err)
	}

	u.deps.publish(ctx, events.SubjectApplicationSubmitted, actor.ID, app.ID, map[string]string{
		"job_id":       job.ID,
		"job_owner_id": job.PostedBy,
	})

	created, err := u.appRepo.GetByID(ctx, app.ID)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	return created, nil
}

func (u *applicationUsecase) Withdraw(ctx context.Context, actor domain.Actor, id string) error {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Application not found")
	}
	res := policy.Resource{Application: app, JobOwnerID: jobOwner(app)}
	if err := u.deps.authorize(ctx, actor, policy.ActionApplicationDelete, res, id, "Not authorized to delete this application"); err != nil {
		return err
	}

	if err := u.appRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Application not found")
	}

	u.deps.publish(ctx, events.SubjectApplicationWithdrawn, actor.ID, id, map[string]string{"job_id": app.JobID})
	return nil
}

func (u *applicationUsecase) PrepareResumeUpload(ctx context.Context, actor domain.Actor, input domain.ResumeUploadInput) (*domain.ResumeUpload, error) {
	if err := u.deps.authorize(ctx, actor, policy.ActionResumeUpload, policy.Resource{}, "", "Only job seekers can upload resumes"); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, validation.FromError(err)
	}
	if u.resumes == nil {
		return nil, apperror.Unavailable("Resume uploads are not configured", nil)
	}

	fileName := path.Base(strings.ReplaceAll(strings.TrimSpace(input.FileName), `\`, "/"))
	ext := strings.ToLower(path.Ext(fileName))
	if !allowedResumeExtensions[ext] {
		return nil, validation.Field("file_name", "Resume must be a PDF or Word document")
	}

	safeName := strings.Trim(unsafeFileChars.ReplaceAllString(fileName, "-"), "-")
	key := fmt.Sprintf("resumes/%s/%s-%s", actor.ID, uuid.NewString(), safeName)

	upload, err := u.resumes.PresignUpload(ctx, key, fileName)
	if err != nil {
		return nil, apperror.Unavailable("Resume storage is unavailable", err)
	}
	return upload, nil
}

func (u *applicationUsecase) List(ctx context.Context, actor domain.Actor, query domain.ApplicationQuery) ([]domain.Application, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, validation.InvalidEnum("status", "application_status")
	}
	filter, err := u.deps.Policy.ApplicationScope(actor, query)
	if err != nil {
		u.deps.Audit.AccessDenied(ctx, actor.ID, string(policy.ActionApplicationList), "", "scope")
		return nil, err
	}

	apps, err := u.appRepo.List(ctx, filter)
	if errors.Is(err, domain.ErrNotFound) {
		// A job id the store cannot parse matches no application.
		return []domain.Application{}, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

func (u *applicationUsecase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	res := policy.Resource{Application: app, JobOwnerID: jobOwner(app)}
	if err := u.deps.authorize(ctx, actor, policy.ActionApplicationRead, res, id, "Not authorized to view this application"); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *applicationUsecase) SetStatus(ctx context.Context, actor domain.Actor, id string, update domain.StatusUpdate) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	res := policy.Resource{Application: app, JobOwnerID: jobOwner(app)}
	if err := u.deps.authorize(ctx, actor, policy.ActionApplicationUpdate, res, id, "Not authorized to update this application"); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(update); err != nil {
		return nil, validation.FromError(err)
	}

	previous := app.Status
	app.SetStatus(update.Status, u.deps.now())
	if update.Notes != nil {
		app.Notes = *update.Notes
	}

	if err := u.appRepo.Update(ctx, app); err != nil {
		return nil, storeError(err, "Application not found")
	}

	u.deps.publish(ctx, events.SubjectApplicationStatusChanged, actor.ID, id, map[string]string{
		"from":         string(previous),
		"to":           string(app.Status),
		"applicant_id": app.ApplicantID,
	})
	return app, nil
}

// Export renders the recruiter's scoped applications as an xlsx workbook.
func (u *applicationUsecase) Export(ctx context.Context, actor domain.Actor, query domain.ApplicationQuery) ([]byte, error) {
	if err := u.deps.authorize(ctx, actor, policy.ActionApplicationExport, policy.Resource{}, "", "Only recruiters can export applications"); err != nil {
		return nil, err
	}
	apps, err := u.List(ctx, actor, query)
	if err != nil {
		return nil, err
	}

	data, err := export.ApplicationsXLSX(apps)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

// jobOwner returns postedBy of the referenced job, or "" once the job is gone.
func jobOwner(app *domain.Application) string {
	if app.Job == nil {
		return ""
	}
	return app.Job.PostedBy
}
