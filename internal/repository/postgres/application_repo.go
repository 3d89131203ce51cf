package postgres

import (
	"context"
	"jobconnect-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Jobs are joined with LEFT JOIN: an application outlives a deleted job and
// then carries no job summary.
const applicationSelect = `
		SELECT
			a.id, a.job_id, a.applicant_id, a.status, a.cover_letter,
			a.resume_url, a.resume_file_name, a.applied_at, a.reviewed_at, a.notes,
			j.id, j.title, j.company, j.location, j.type, j.status, j.posted_by,
			u.id, u.name, u.email, u.phone, u.location, u.bio, u.company
		FROM applications a
		LEFT JOIN jobs j ON j.id = a.job_id
		LEFT JOIN users u ON u.id = a.applicant_id`

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row scanner) (*domain.Application, error) {
	var app domain.Application
	var resumeURL, resumeFileName *string
	var job struct {
		ID, Title, Company, Location, Type, Status, PostedBy *string
	}
	var applicant struct {
		ID, Name, Email, Phone, Location, Bio, Company *string
	}
	err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.Status, &app.CoverLetter,
		&resumeURL, &resumeFileName, &app.AppliedAt, &app.ReviewedAt, &app.Notes,
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Type, &job.Status, &job.PostedBy,
		&applicant.ID, &applicant.Name, &applicant.Email, &applicant.Phone,
		&applicant.Location, &applicant.Bio, &applicant.Company,
	)
	if err != nil {
		return nil, err
	}

	if resumeURL != nil || resumeFileName != nil {
		app.Resume = &domain.Resume{URL: deref(resumeURL), FileName: deref(resumeFileName)}
	}
	if job.ID != nil {
		app.Job = &domain.JobSummary{
			ID:       *job.ID,
			Title:    deref(job.Title),
			Company:  deref(job.Company),
			Location: deref(job.Location),
			Type:     domain.JobType(deref(job.Type)),
			Status:   domain.JobStatus(deref(job.Status)),
			PostedBy: deref(job.PostedBy),
		}
	}
	if applicant.ID != nil {
		app.Applicant = &domain.UserSummary{
			ID:    *applicant.ID,
			Name:  deref(applicant.Name),
			Email: deref(applicant.Email),
			Profile: domain.Profile{
				Phone:    deref(applicant.Phone),
				Location: deref(applicant.Location),
				Bio:      deref(applicant.Bio),
				Company:  deref(applicant.Company),
			},
		}
	}
	return &app, nil
}

func resumeColumns(r *domain.Resume) (url, fileName *string) {
	if r == nil {
		return nil, nil
	}
	return &r.URL, &r.FileName
}

// Create is the only guard for one application per job and applicant:
// applications_job_applicant_key rejects the second insert atomically.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	url, fileName := resumeColumns(app.Resume)
	query := `INSERT INTO applications (id, job_id, applicant_id, status, cover_letter,
                  resume_url, resume_file_name, applied_at, reviewed_at, notes)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		app.ID, app.JobID, app.ApplicantID, app.Status, app.CoverLetter,
		url, fileName, app.AppliedAt, app.ReviewedAt, app.Notes,
	)
	return translate(err, "create application")
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate(err, "get application")
	}
	return app, nil
}

// List applies the scope in SQL. RecruiterID matches applications whose job
// is posted by that recruiter, so applications to deleted jobs drop out.
func (r *applicationRepo) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, error) {
	w := applicationWhere(filter)
	rows, err := r.db.Query(ctx, applicationSelect+w.String()+` ORDER BY a.applied_at DESC, a.id`, w.args...)
	if err != nil {
		return nil, translate(err, "list applications")
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, translate(err, "scan application")
		}
		apps = append(apps, *app)
	}
	return apps, translate(rows.Err(), "list applications")
}

func applicationWhere(filter domain.ApplicationFilter) where {
	var w where
	if filter.ApplicantID != "" {
		w.add("a.applicant_id = ?", filter.ApplicantID)
	}
	if filter.RecruiterID != "" {
		w.add("j.posted_by = ?", filter.RecruiterID)
	}
	if filter.JobID != "" {
		w.add("a.job_id = ?", filter.JobID)
	}
	if filter.Status != "" {
		w.add("a.status = ?", filter.Status)
	}
	return w
}

// Update writes the mutable review fields.
func (r *applicationRepo) Update(ctx context.Context, app *domain.Application) error {
	query := `UPDATE applications SET status = $2, reviewed_at = $3, notes = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, app.ID, app.Status, app.ReviewedAt, app.Notes)
	if err != nil {
		return translate(err, "update application")
	}
	return affected(tag)
}

func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete application")
	}
	return affected(tag)
}
