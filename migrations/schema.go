package migrations

var CreateUsersTable = Migration{
	Version:     1,
	Description: "Create users table",
	Up: `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('job_seeker', 'recruiter')),
			phone         TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			bio           TEXT NOT NULL DEFAULT '',
			company       TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			CONSTRAINT users_email_key UNIQUE (email)
		)`,
	Down: `DROP TABLE IF EXISTS users`,
}

// Jobs carry a generated tsvector over title, description and company for
// text search.
var CreateJobsTable = Migration{
	Version:     2,
	Description: "Create jobs table",
	Up: `
		CREATE TABLE IF NOT EXISTS jobs (
			id                   UUID PRIMARY KEY,
			title                TEXT NOT NULL,
			description          TEXT NOT NULL,
			company              TEXT NOT NULL,
			location             TEXT NOT NULL,
			type                 TEXT NOT NULL CHECK (type IN ('full-time', 'part-time', 'contract', 'internship')),
			salary_min           DOUBLE PRECISION,
			salary_max           DOUBLE PRECISION,
			salary_currency      TEXT NOT NULL DEFAULT 'USD',
			experience           TEXT NOT NULL DEFAULT '',
			education            TEXT NOT NULL DEFAULT '',
			skills               TEXT[] NOT NULL DEFAULT '{}',
			posted_by            UUID NOT NULL,
			status               TEXT NOT NULL CHECK (status IN ('active', 'closed', 'draft')),
			application_deadline TIMESTAMPTZ,
			created_at           TIMESTAMPTZ NOT NULL,
			updated_at           TIMESTAMPTZ NOT NULL,
			search               TSVECTOR GENERATED ALWAYS AS (
				to_tsvector('english', title || ' ' || description || ' ' || company)
			) STORED
		);
		CREATE INDEX IF NOT EXISTS jobs_search_idx ON jobs USING GIN (search);
		CREATE INDEX IF NOT EXISTS jobs_status_created_idx ON jobs (status, created_at DESC);
		CREATE INDEX IF NOT EXISTS jobs_posted_by_idx ON jobs (posted_by)`,
	Down: `DROP TABLE IF EXISTS jobs`,
}

// job_id is a soft reference: deleting a job leaves its applications in
// place for the applicant.
var CreateApplicationsTable = Migration{
	Version:     3,
	Description: "Create applications table",
	Up: `
		CREATE TABLE IF NOT EXISTS applications (
			id               UUID PRIMARY KEY,
			job_id           UUID NOT NULL,
			applicant_id     UUID NOT NULL,
			status           TEXT NOT NULL CHECK (status IN ('pending', 'reviewed', 'shortlisted', 'rejected', 'accepted')),
			cover_letter     TEXT NOT NULL DEFAULT '' CHECK (char_length(cover_letter) <= 2000),
			resume_url       TEXT,
			resume_file_name TEXT,
			applied_at       TIMESTAMPTZ NOT NULL,
			reviewed_at      TIMESTAMPTZ,
			notes            TEXT NOT NULL DEFAULT '',
			CONSTRAINT applications_job_applicant_key UNIQUE (job_id, applicant_id)
		);
		CREATE INDEX IF NOT EXISTS applications_applicant_idx ON applications (applicant_id)`,
	Down: `DROP TABLE IF EXISTS applications`,
}
