package usecase_test

import (
	"context"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/repository/memory"
	"jobconnect-backend/internal/usecase"
	"jobconnect-backend/pkg/validation"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// tickingClock advances one second per call so records created in sequence
// have distinct, increasing timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	current := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// board wires the job and application usecases over an in-memory store.
type board struct {
	store   *memory.Store
	events  *MockPublisher
	resumes *MockResumeStorage
	jobs    domain.JobUsecase
	apps    domain.ApplicationUsecase
	users   domain.UserUsecase
}

func newBoard(t *testing.T) *board {
	t.Helper()

	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	store := memory.NewStore()
	resumes := new(MockResumeStorage)
	validate := validation.New()
	deps := usecase.Deps{Events: pub, Clock: tickingClock()}

	return &board{
		store:   store,
		events:  pub,
		resumes: resumes,
		jobs:    usecase.NewJobUsecase(store.Jobs(), validate, deps),
		apps:    usecase.NewApplicationUsecase(store.Applications(), store.Jobs(), resumes, validate, deps),
		users:   usecase.NewUserUsecase(store.Users(), validate, deps),
	}
}

// addUser inserts a user directly and returns the matching actor.
func (b *board) addUser(t *testing.T, id string, role domain.Role) domain.Actor {
	t.Helper()
	err := b.store.Users().Create(context.Background(), &domain.User{
		ID:        id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		Role:      role,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})
	require.NoError(t, err)
	return domain.Actor{ID: id, Role: role}
}

func (b *board) postJob(t *testing.T, recruiter domain.Actor, title, location string, status domain.JobStatus) *domain.Job {
	t.Helper()
	job, err := b.jobs.CreateJob(context.Background(), recruiter, domain.JobInput{
		Title:       title,
		Description: "Build and run " + title + " services",
		Company:     "Acme",
		Location:    location,
		Type:        domain.JobTypeFullTime,
		Status:      status,
	})
	require.NoError(t, err)
	return job
}

func (b *board) apply(t *testing.T, seeker domain.Actor, jobID string) *domain.Application {
	t.Helper()
	app, err := b.apps.Apply(context.Background(), seeker, domain.ApplyInput{JobID: jobID})
	require.NoError(t, err)
	return app
}

func ptr[T any](v T) *T {
	return &v
}
