package usecase

import (
	"context"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/policy"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/events"
	"jobconnect-backend/pkg/validation"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type jobUsecase struct {
	jobRepo  domain.JobRepository
	validate *validator.Validate
	deps     Deps
}

func NewJobUsecase(jobRepo domain.JobRepository, validate *validator.Validate, deps Deps) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:  jobRepo,
		validate: validate,
		deps:     deps.withDefaults(),
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor domain.Actor, input domain.JobInput) (*domain.Job, error) {
	if err := u.deps.authorize(ctx, actor, policy.ActionJobCreate, policy.Resource{}, "", "Only recruiters can post jobs"); err != nil {
		return nil, err
	}
	input = normalizeJobInput(input)
	if err := u.validate.Struct(input); err != nil {
		return nil, validation.FromError(err)
	}
	if err := checkSalary(input.Salary); err != nil {
		return nil, err
	}

	now := u.deps.now()
	job := &domain.Job{
		ID:                  uuid.NewString(),
		Title:               input.Title,
		Description:         input.Description,
		Company:             input.Company,
		Location:            input.Location,
		Type:                input.Type,
		Salary:              normalizeSalary(input.Salary),
		Requirements:        input.Requirements,
		PostedBy:            actor.ID,
		Status:              input.Status,
		ApplicationDeadline: input.ApplicationDeadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if job.Status == "" {
		job.Status = domain.JobStatusActive
	}

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}

	u.deps.publish(ctx, events.SubjectJobCreated, actor.ID, job.ID, map[string]string{"status": string(job.Status)})

	created, err := u.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return created, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return job, nil
}

// SearchJobs pages through jobs newest first. Status defaults to active;
// other statuses are restricted to the requesting recruiter's own jobs.
func (u *jobUsecase) SearchJobs(ctx context.Context, actor domain.Actor, search domain.JobSearch) (*domain.JobPage, error) {
	if search.Type != "" && !search.Type.Valid() {
		return nil, validation.InvalidEnum("type", "job_type")
	}
	if search.Status == "" {
		search.Status = domain.JobStatusActive
	}
	if !search.Status.Valid() {
		return nil, validation.InvalidEnum("status", "job_status")
	}

	postedBy, err := u.deps.Policy.JobSearchScope(actor, search.Status)
	if err != nil {
		u.deps.Audit.AccessDenied(ctx, actor.ID, string(policy.ActionJobRead), "", "non_public_status")
		return nil, err
	}

	page, pageSize := normalizePaging(search.Page, search.PageSize)
	jobs, total, err := u.jobRepo.Search(ctx, domain.JobFilter{
		Text:     strings.TrimSpace(search.Text),
		Type:     search.Type,
		Location: strings.TrimSpace(search.Location),
		Status:   search.Status,
		PostedBy: postedBy,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.JobPage{
		Jobs:      jobs,
		Count:     len(jobs),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount(total, pageSize),
	}, nil
}

func (u *jobUsecase) ListMyJobs(ctx context.Context, actor domain.Actor) ([]domain.Job, error) {
	if err := u.deps.authorize(ctx, actor, policy.ActionJobCreate, policy.Resource{}, "", "Only recruiters have posted jobs"); err != nil {
		return nil, err
	}
	jobs, err := u.jobRepo.ListByPoster(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, actor domain.Actor, id string, patch domain.JobPatch) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	res := policy.Resource{Job: job}
	if err := u.deps.authorize(ctx, actor, policy.ActionJobUpdate, res, id, "Not authorized to update this job"); err != nil {
		return nil, err
	}
	patch = normalizeJobPatch(patch)
	if err := u.validate.Struct(patch); err != nil {
		return nil, validation.FromError(err)
	}

	applyJobPatch(job, patch)
	// A patch may only leave the job in a state a new posting could have.
	if err := u.validate.Struct(postingOf(job)); err != nil {
		return nil, validation.FromError(err)
	}
	if err := checkSalary(job.Salary); err != nil {
		return nil, err
	}
	job.UpdatedAt = u.deps.now()

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, storeError(err, "Job not found")
	}

	updated, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return updated, nil
}

// DeleteJob removes the job only. Its applications stay with their
// applicants and lose the job summary.
func (u *jobUsecase) DeleteJob(ctx context.Context, actor domain.Actor, id string) error {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Job not found")
	}
	res := policy.Resource{Job: job}
	if err := u.deps.authorize(ctx, actor, policy.ActionJobDelete, res, id, "Not authorized to delete this job"); err != nil {
		return err
	}

	if err := u.jobRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Job not found")
	}

	u.deps.publish(ctx, events.SubjectJobDeleted, actor.ID, id, nil)
	return nil
}

// normalizeJobInput trims the posting so required checks see the stored values.
func normalizeJobInput(in domain.JobInput) domain.JobInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.Salary.Currency = strings.ToUpper(strings.TrimSpace(in.Salary.Currency))
	in.Requirements = normalizeRequirements(in.Requirements)
	return in
}

func normalizeJobPatch(patch domain.JobPatch) domain.JobPatch {
	patch.Title = trimmed(patch.Title)
	patch.Description = trimmed(patch.Description)
	patch.Company = trimmed(patch.Company)
	patch.Location = trimmed(patch.Location)
	if patch.Requirements != nil {
		req := normalizeRequirements(*patch.Requirements)
		patch.Requirements = &req
	}
	return patch
}

// trimmed returns a trimmed copy so the caller's value is left alone.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func postingOf(job *domain.Job) domain.JobInput {
	return domain.JobInput{
		Title:               job.Title,
		Description:         job.Description,
		Company:             job.Company,
		Location:            job.Location,
		Type:                job.Type,
		Salary:              job.Salary,
		Requirements:        job.Requirements,
		Status:              job.Status,
		ApplicationDeadline: job.ApplicationDeadline,
	}
}

func applyJobPatch(job *domain.Job, patch domain.JobPatch) {
	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.Company != nil {
		job.Company = *patch.Company
	}
	if patch.Location != nil {
		job.Location = *patch.Location
	}
	if patch.Type != nil {
		job.Type = *patch.Type
	}
	if patch.Salary != nil {
		job.Salary = normalizeSalary(*patch.Salary)
	}
	if patch.Requirements != nil {
		job.Requirements = *patch.Requirements
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.ApplicationDeadline != nil {
		job.ApplicationDeadline = patch.ApplicationDeadline
	}
}

func checkSalary(s domain.Salary) error {
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return validation.Field("salary.min", "Minimum salary cannot be greater than maximum salary")
	}
	return nil
}

func normalizeSalary(s domain.Salary) domain.Salary {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = domain.DefaultCurrency
	}
	return s
}

// normalizeRequirements trims skills and drops blanks and case-insensitive
// duplicates, keeping first occurrence order.
func normalizeRequirements(r domain.Requirements) domain.Requirements {
	seen := make(map[string]struct{}, len(r.Skills))
	skills := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}
	r.Skills = skills
	r.Experience = strings.TrimSpace(r.Experience)
	r.Education = strings.TrimSpace(r.Education)
	return r
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func pageCount(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
