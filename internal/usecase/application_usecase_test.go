package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/usecase"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/events"
	"jobconnect-backend/pkg/validation"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	b := newBoard(t)
	r1 := b.addUser(t, "r1", domain.RoleRecruiter)
	r2 := b.addUser(t, "r2", domain.RoleRecruiter)
	s1 := b.addUser(t, "s1", domain.RoleJobSeeker)

	j1 := b.postJob(t, r1, "Backend Engineer", "Remote", "")
	assert.Equal(t, domain.JobStatusActive, j1.Status)

	a1 := b.apply(t, s1, j1.ID)
	assert.Equal(t, domain.ApplicationStatusPending, a1.Status)
	assert.Nil(t, a1.ReviewedAt)
	require.NotNil(t, a1.Job)
	assert.Equal(t, "Backend Engineer", a1.Job.Title)
	require.NotNil(t, a1.Applicant)
	assert.Equal(t, "s1@example.com", a1.Applicant.Email)

	_, err := b.apps.Apply(ctx, s1, domain.ApplyInput{JobID: j1.ID})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))
	assert.Equal(t, "You have already applied to this job", err.Error())

	updated, err := b.apps.SetStatus(ctx, r1, a1.ID, domain.StatusUpdate{Status: domain.ApplicationStatusShortlisted})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusShortlisted, updated.Status)
	assert.NotNil(t, updated.ReviewedAt)

	_, err = b.apps.SetStatus(ctx, r2, a1.ID, domain.StatusUpdate{Status: domain.ApplicationStatusRejected})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = b.apps.Withdraw(ctx, r1, a1.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, b.apps.Withdraw(ctx, s1, a1.ID))
	_, err = b.apps.Get(ctx, s1, a1.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Equal(t, []string{
		events.SubjectJobCreated,
		events.SubjectApplicationSubmitted,
		events.SubjectApplicationStatusChanged,
		events.SubjectApplicationWithdrawn,
	}, b.events.subjects())
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("Concurrent applications for the same job produce exactly one record", func(t *testing.T) {
		b := newBoard(t)
		r1 := b.addUser(t, "r1", domain.RoleRecruiter)
		s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
		job := b.postJob(t, r1, "Platform Engineer", "Berlin", "")

		const attempts = 20
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := range attempts {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = b.apps.Apply(ctx, s1, domain.ApplyInput{JobID: job.ID})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, apperror.Is(err, apperror.KindDuplicate), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)

		apps, err := b.apps.List(ctx, s1, domain.ApplicationQuery{})
		require.NoError(t, err)
		assert.Len(t, apps, 1)
	})

	t.Run("Closed jobs reject applications", func(t *testing.T) {
		b := newBoard(t)
		r1 := b.addUser(t, "r1", domain.RoleRecruiter)
		s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
		job := b.postJob(t, r1, "Data Engineer", "Paris", domain.JobStatusClosed)

		_, err := b.apps.Apply(ctx, s1, domain.ApplyInput{JobID: job.ID})
		assert.True(t, apperror.Is(err, apperror.KindInvalidState))
		assert.Equal(t, "Cannot apply to inactive job", err.Error())
	})

	t.Run("Unknown jobs are not found", func(t *testing.T) {
		b := newBoard(t)
		s1 := b.addUser(t, "s1", domain.RoleJobSeeker)

		_, err := b.apps.Apply(ctx, s1, domain.ApplyInput{JobID: "missing"})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Recruiters cannot apply", func(t *testing.T) {
		b := newBoard(t)
		r1 := b.addUser(t, "r1", domain.RoleRecruiter)
		r2 := b.addUser(t, "r2", domain.RoleRecruiter)
		job := b.postJob(t, r1, "SRE", "Remote", "")

		_, err := b.apps.Apply(ctx, r2, domain.ApplyInput{JobID: job.ID})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("Cover letters over the limit are rejected", func(t *testing.T) {
		b := newBoard(t)
		r1 := b.addUser(t, "r1", domain.RoleRecruiter)
		s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
		job := b.postJob(t, r1, "SRE", "Remote", "")

		_, err := b.apps.Apply(ctx, s1, domain.ApplyInput{
			JobID:       job.ID,
			CoverLetter: strings.Repeat("a", domain.MaxCoverLetterLength+1),
		})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Withdrawing frees the slot for a new application", func(t *testing.T) {
		b := newBoard(t)
		r1 := b.addUser(t, "r1", domain.RoleRecruiter)
		s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
		job := b.postJob(t, r1, "SRE", "Remote", "")

		first := b.apply(t, s1, job.ID)
		require.NoError(t, b.apps.Withdraw(ctx, s1, first.ID))
		second := b.apply(t, s1, job.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("A store duplicate after a passing check is still a duplicate", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		jobRepo := new(MockJobRepo)
		uc := usecase.NewApplicationUsecase(appRepo, jobRepo, nil, validation.New(), usecase.Deps{})

		job := &domain.Job{ID: "j1", PostedBy: "r1", Status: domain.JobStatusActive}
		jobRepo.On("GetByID", ctx, "j1").Return(job, nil)
		appRepo.On("Create", ctx, mock.AnythingOfType("*domain.Application")).Return(domain.ErrDuplicate)

		_, err := uc.Apply(ctx, domain.Actor{ID: "s1", Role: domain.RoleJobSeeker}, domain.ApplyInput{JobID: "j1"})
		assert.True(t, apperror.Is(err, apperror.KindDuplicate))
		appRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	b := newBoard(t)
	r1 := b.addUser(t, "r1", domain.RoleRecruiter)
	s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
	job := b.postJob(t, r1, "SRE", "Remote", "")
	app := b.apply(t, s1, job.ID)

	t.Run("Any status other than pending stamps reviewedAt", func(t *testing.T) {
		for _, status := range []domain.ApplicationStatus{
			domain.ApplicationStatusReviewed,
			domain.ApplicationStatusRejected,
			domain.ApplicationStatusAccepted,
		} {
			updated, err := b.apps.SetStatus(ctx, r1, app.ID, domain.StatusUpdate{Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
			assert.NotNil(t, updated.ReviewedAt)
		}
	})

	t.Run("Moving back to pending clears reviewedAt", func(t *testing.T) {
		updated, err := b.apps.SetStatus(ctx, r1, app.ID, domain.StatusUpdate{Status: domain.ApplicationStatusPending})
		require.NoError(t, err)
		assert.Nil(t, updated.ReviewedAt)

		stored, err := b.apps.Get(ctx, s1, app.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ReviewedAt)
	})

	t.Run("Notes are kept when omitted", func(t *testing.T) {
		_, err := b.apps.SetStatus(ctx, r1, app.ID, domain.StatusUpdate{
			Status: domain.ApplicationStatusReviewed,
			Notes:  ptr("Strong Go background"),
		})
		require.NoError(t, err)

		updated, err := b.apps.SetStatus(ctx, r1, app.ID, domain.StatusUpdate{Status: domain.ApplicationStatusShortlisted})
		require.NoError(t, err)
		assert.Equal(t, "Strong Go background", updated.Notes)
	})

	t.Run("Unknown statuses are rejected", func(t *testing.T) {
		_, err := b.apps.SetStatus(ctx, r1, app.ID, domain.StatusUpdate{Status: "hired"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("The applicant cannot change the status", func(t *testing.T) {
		_, err := b.apps.SetStatus(ctx, s1, app.ID, domain.StatusUpdate{Status: domain.ApplicationStatusAccepted})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}

func TestListApplications(t *testing.T) {
	ctx := context.Background()
	b := newBoard(t)
	r1 := b.addUser(t, "r1", domain.RoleRecruiter)
	r2 := b.addUser(t, "r2", domain.RoleRecruiter)
	s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
	s2 := b.addUser(t, "s2", domain.RoleJobSeeker)

	j1 := b.postJob(t, r1, "Backend Engineer", "Remote", "")
	j2 := b.postJob(t, r2, "Frontend Engineer", "Remote", "")
	b.apply(t, s1, j1.ID)
	b.apply(t, s1, j2.ID)
	b.apply(t, s2, j1.ID)

	t.Run("Job seekers see only their own applications", func(t *testing.T) {
		apps, err := b.apps.List(ctx, s1, domain.ApplicationQuery{})
		require.NoError(t, err)
		assert.Len(t, apps, 2)
		for _, a := range apps {
			assert.Equal(t, "s1", a.ApplicantID)
		}
	})

	t.Run("Recruiters see only applications to their jobs", func(t *testing.T) {
		apps, err := b.apps.List(ctx, r1, domain.ApplicationQuery{})
		require.NoError(t, err)
		assert.Len(t, apps, 2)
		for _, a := range apps {
			assert.Equal(t, j1.ID, a.JobID)
		}
	})

	t.Run("A job filter cannot widen the scope", func(t *testing.T) {
		apps, err := b.apps.List(ctx, r1, domain.ApplicationQuery{JobID: j2.ID})
		require.NoError(t, err)
		assert.Empty(t, apps)
	})

	t.Run("Listings are newest first", func(t *testing.T) {
		apps, err := b.apps.List(ctx, s1, domain.ApplicationQuery{})
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, j2.ID, apps[0].JobID)
	})

	t.Run("Unknown status filters are rejected", func(t *testing.T) {
		_, err := b.apps.List(ctx, s1, domain.ApplicationQuery{Status: "hired"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Anonymous callers are rejected", func(t *testing.T) {
		_, err := b.apps.List(ctx, domain.Actor{}, domain.ApplicationQuery{})
		assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
	})

	t.Run("A job filter the store cannot parse lists nothing", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("List", ctx, domain.ApplicationFilter{RecruiterID: "r1", JobID: "not-a-uuid"}).Return(nil, domain.ErrNotFound)
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), nil, validation.New(), usecase.Deps{})

		apps, err := uc.List(ctx, r1, domain.ApplicationQuery{JobID: "not-a-uuid"})
		require.NoError(t, err)
		assert.NotNil(t, apps)
		assert.Empty(t, apps)
		appRepo.AssertExpectations(t)
	})

	t.Run("Other store failures are internal errors", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		appRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("connection reset"))
		uc := usecase.NewApplicationUsecase(appRepo, new(MockJobRepo), nil, validation.New(), usecase.Deps{})

		_, err := uc.List(ctx, s1, domain.ApplicationQuery{})
		assert.True(t, apperror.Is(err, apperror.KindInternal))
	})

	t.Run("Applications outlive a deleted job without a job summary", func(t *testing.T) {
		require.NoError(t, b.jobs.DeleteJob(ctx, r2, j2.ID))

		apps, err := b.apps.List(ctx, s1, domain.ApplicationQuery{JobID: j2.ID})
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Nil(t, apps[0].Job)

		_, err = b.apps.Get(ctx, r2, apps[0].ID)
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}

func TestGetApplication(t *testing.T) {
	ctx := context.Background()
	b := newBoard(t)
	r1 := b.addUser(t, "r1", domain.RoleRecruiter)
	r2 := b.addUser(t, "r2", domain.RoleRecruiter)
	s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
	s2 := b.addUser(t, "s2", domain.RoleJobSeeker)
	app := b.apply(t, s1, b.postJob(t, r1, "SRE", "Remote", "").ID)

	_, err := b.apps.Get(ctx, s1, app.ID)
	assert.NoError(t, err)
	_, err = b.apps.Get(ctx, r1, app.ID)
	assert.NoError(t, err)
	_, err = b.apps.Get(ctx, s2, app.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = b.apps.Get(ctx, r2, app.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = b.apps.Get(ctx, s1, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPrepareResumeUpload(t *testing.T) {
	ctx := context.Background()
	seeker := domain.Actor{ID: "s1", Role: domain.RoleJobSeeker}

	t.Run("Presigns under the applicant's prefix", func(t *testing.T) {
		resumes := new(MockResumeStorage)
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), resumes, validation.New(), usecase.Deps{})

		upload := &domain.ResumeUpload{UploadURL: "https://bucket.example/put", Method: "PUT", ExpiresAt: time.Now()}
		resumes.On("PresignUpload", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "resumes/s1/") && strings.HasSuffix(key, "-My-CV-2024.pdf")
		}), "My CV 2024.pdf").Return(upload, nil)

		got, err := uc.PrepareResumeUpload(ctx, seeker, domain.ResumeUploadInput{FileName: "My CV 2024.pdf"})
		require.NoError(t, err)
		assert.Equal(t, upload, got)
		resumes.AssertExpectations(t)
	})

	t.Run("Rejects files that are not documents", func(t *testing.T) {
		resumes := new(MockResumeStorage)
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), resumes, validation.New(), usecase.Deps{})

		_, err := uc.PrepareResumeUpload(ctx, seeker, domain.ResumeUploadInput{FileName: "photo.png"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		resumes.AssertNotCalled(t, "PresignUpload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reports unavailable without object storage", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), nil, validation.New(), usecase.Deps{})

		_, err := uc.PrepareResumeUpload(ctx, seeker, domain.ResumeUploadInput{FileName: "cv.pdf"})
		assert.True(t, apperror.Is(err, apperror.KindUnavailable))
	})

	t.Run("Storage failures are unavailable", func(t *testing.T) {
		resumes := new(MockResumeStorage)
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), resumes, validation.New(), usecase.Deps{})
		resumes.On("PresignUpload", ctx, mock.Anything, "cv.docx").Return(nil, errors.New("no credentials"))

		_, err := uc.PrepareResumeUpload(ctx, seeker, domain.ResumeUploadInput{FileName: "cv.docx"})
		assert.True(t, apperror.Is(err, apperror.KindUnavailable))
	})

	t.Run("Recruiters cannot upload resumes", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo), nil, validation.New(), usecase.Deps{})

		_, err := uc.PrepareResumeUpload(ctx, domain.Actor{ID: "r1", Role: domain.RoleRecruiter}, domain.ResumeUploadInput{FileName: "cv.pdf"})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}

func TestExportApplications(t *testing.T) {
	ctx := context.Background()
	b := newBoard(t)
	r1 := b.addUser(t, "r1", domain.RoleRecruiter)
	s1 := b.addUser(t, "s1", domain.RoleJobSeeker)
	b.apply(t, s1, b.postJob(t, r1, "Backend Engineer", "Remote", "").ID)

	t.Run("Recruiters get a workbook with their applications", func(t *testing.T) {
		data, err := b.apps.Export(ctx, r1, domain.ApplicationQuery{})
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Applications")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Contains(t, rows[1], "Backend Engineer")
		assert.Contains(t, rows[1], "s1@example.com")
	})

	t.Run("Job seekers cannot export", func(t *testing.T) {
		_, err := b.apps.Export(ctx, s1, domain.ApplicationQuery{})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}
