package postgres

import (
	"jobconnect-backend/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobWhere(t *testing.T) {
	t.Run("Empty filter matches everything", func(t *testing.T) {
		w := jobWhere(domain.JobFilter{Limit: 10})
		assert.Empty(t, w.String())
		assert.Empty(t, w.args)
	})

	t.Run("Text search ORs the terms", func(t *testing.T) {
		w := jobWhere(domain.JobFilter{
			Status:   domain.JobStatusActive,
			Text:     "  golang backend ",
			PostedBy: "rec-1",
		})

		assert.Equal(t,
			" WHERE j.status = $1 AND j.search @@ replace(plainto_tsquery('english', $2)::text, '&', '|')::tsquery AND j.posted_by = $3",
			w.String())
		assert.Equal(t, []any{domain.JobStatusActive, "golang backend", "rec-1"}, w.args)
	})

	t.Run("Location is a case-insensitive substring", func(t *testing.T) {
		w := jobWhere(domain.JobFilter{Type: domain.JobTypeContract, Location: " 100%_Berlin "})

		assert.Equal(t, " WHERE j.type = $1 AND j.location ILIKE $2", w.String())
		assert.Equal(t, []any{domain.JobTypeContract, `%100\%\_Berlin%`}, w.args)
	})

	t.Run("Blank text and location are ignored", func(t *testing.T) {
		w := jobWhere(domain.JobFilter{Text: "   ", Location: "\t"})
		assert.Empty(t, w.String())
	})
}

func TestApplicationWhere(t *testing.T) {
	t.Run("Recruiter scope goes through the joined job", func(t *testing.T) {
		w := applicationWhere(domain.ApplicationFilter{
			RecruiterID: "rec-1",
			JobID:       "job-1",
			Status:      domain.ApplicationStatusPending,
		})

		assert.Equal(t, " WHERE j.posted_by = $1 AND a.job_id = $2 AND a.status = $3", w.String())
		assert.Equal(t, []any{"rec-1", "job-1", domain.ApplicationStatusPending}, w.args)
		assert.Contains(t, applicationSelect, "LEFT JOIN jobs j ON j.id = a.job_id")
	})

	t.Run("Applicant scope", func(t *testing.T) {
		w := applicationWhere(domain.ApplicationFilter{ApplicantID: "seeker-1"})

		assert.Equal(t, " WHERE a.applicant_id = $1", w.String())
		assert.Equal(t, []any{"seeker-1"}, w.args)
	})
}
