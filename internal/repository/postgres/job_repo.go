package postgres

import (
	"context"
	"fmt"
	"jobconnect-backend/internal/domain"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const jobSelect = `
		SELECT
			j.id, j.title, j.description, j.company, j.location, j.type,
			j.salary_min, j.salary_max, j.salary_currency,
			j.experience, j.education, j.skills,
			j.posted_by, j.status, j.application_deadline, j.created_at, j.updated_at,
			u.id, u.name, u.email, u.phone, u.location, u.bio, u.company
		FROM jobs j
		LEFT JOIN users u ON u.id = j.posted_by`

// orTSQuery turns the plain search terms into an OR query so any term matches.
const orTSQuery = `replace(plainto_tsquery('english', ?)::text, '&', '|')::tsquery`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row scanner) (*domain.Job, error) {
	var job domain.Job
	var poster struct {
		ID, Name, Email, Phone, Location, Bio, Company *string
	}
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.Company, &job.Location, &job.Type,
		&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency,
		&job.Requirements.Experience, &job.Requirements.Education, &job.Requirements.Skills,
		&job.PostedBy, &job.Status, &job.ApplicationDeadline, &job.CreatedAt, &job.UpdatedAt,
		&poster.ID, &poster.Name, &poster.Email, &poster.Phone, &poster.Location, &poster.Bio, &poster.Company,
	)
	if err != nil {
		return nil, err
	}
	if poster.ID != nil {
		job.Poster = &domain.UserSummary{
			ID:    *poster.ID,
			Name:  deref(poster.Name),
			Email: deref(poster.Email),
			Profile: domain.Profile{
				Phone:    deref(poster.Phone),
				Location: deref(poster.Location),
				Bio:      deref(poster.Bio),
				Company:  deref(poster.Company),
			},
		}
	}
	if job.Requirements.Skills == nil {
		job.Requirements.Skills = []string{}
	}
	return &job, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (id, title, description, company, location, type,
                  salary_min, salary_max, salary_currency, experience, education, skills,
                  posted_by, status, application_deadline, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.Exec(ctx, query, jobArgs(job)...)
	return translate(err, "create job")
}

func jobArgs(job *domain.Job) []any {
	skills := job.Requirements.Skills
	if skills == nil {
		skills = []string{}
	}
	return []any{
		job.ID, job.Title, job.Description, job.Company, job.Location, job.Type,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.Requirements.Experience, job.Requirements.Education, skills,
		job.PostedBy, job.Status, job.ApplicationDeadline, job.CreatedAt, job.UpdatedAt,
	}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, translate(err, "get job")
	}
	return job, nil
}

func jobWhere(filter domain.JobFilter) where {
	var w where
	if filter.Status != "" {
		w.add("j.status = ?", filter.Status)
	}
	if filter.Type != "" {
		w.add("j.type = ?", filter.Type)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		w.add("j.location ILIKE ?", containsPattern(loc))
	}
	if text := strings.TrimSpace(filter.Text); text != "" {
		w.add("j.search @@ "+orTSQuery, text)
	}
	if filter.PostedBy != "" {
		w.add("j.posted_by = ?", filter.PostedBy)
	}
	return w
}

// Search returns one page of matching jobs, newest first, and the total
// number of matches.
func (r *jobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	w := jobWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs j`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "count jobs")
	}

	args := append(append([]any{}, w.args...), filter.Limit, filter.Offset)
	query := jobSelect + w.String() +
		` ORDER BY j.created_at DESC, j.id` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	jobs, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) ListByPoster(ctx context.Context, postedBy string) ([]domain.Job, error) {
	return r.collect(ctx, jobSelect+` WHERE j.posted_by = $1 ORDER BY j.created_at DESC, j.id`, postedBy)
}

func (r *jobRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "query jobs")
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, translate(err, "scan job")
		}
		jobs = append(jobs, *job)
	}
	return jobs, translate(rows.Err(), "query jobs")
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, description = $3, company = $4, location = $5, type = $6,
                  salary_min = $7, salary_max = $8, salary_currency = $9,
                  experience = $10, education = $11, skills = $12,
                  status = $13, application_deadline = $14, updated_at = $15
              WHERE id = $1`
	skills := job.Requirements.Skills
	if skills == nil {
		skills = []string{}
	}
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Company, job.Location, job.Type,
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.Requirements.Experience, job.Requirements.Education, skills,
		job.Status, job.ApplicationDeadline, job.UpdatedAt,
	)
	if err != nil {
		return translate(err, "update job")
	}
	return affected(tag)
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete job")
	}
	return affected(tag)
}
