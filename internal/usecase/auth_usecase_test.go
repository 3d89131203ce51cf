package usecase_test

import (
	"context"
	"errors"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/usecase"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/auth"
	"jobconnect-backend/pkg/validation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuth(repo *MockUserRepo) (domain.AuthUsecase, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", "jobconnect", time.Hour, nil)
	return usecase.NewAuthUsecase(repo, tokens, validation.New(), usecase.Deps{}), tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the user with a hashed password and a normalized email", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, tokens := newAuth(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		result, err := uc.Register(ctx, domain.RegisterInput{
			Name:     "  Ada Lovelace ",
			Email:    " Ada@Example.COM ",
			Password: "secret123",
			Role:     domain.RoleJobSeeker,
		})
		require.NoError(t, err)

		created := repo.Calls[0].Arguments.Get(1).(*domain.User)
		assert.Equal(t, "ada@example.com", created.Email)
		assert.Equal(t, "Ada Lovelace", created.Name)
		assert.NotEqual(t, "secret123", created.PasswordHash)
		assert.True(t, auth.CheckPassword(created.PasswordHash, "secret123"))

		claims, err := tokens.Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, claims.Subject)
		assert.Equal(t, string(domain.RoleJobSeeker), claims.Role)
	})

	t.Run("Reports an existing email as a duplicate", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicate)

		_, err := uc.Register(ctx, domain.RegisterInput{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "secret123",
			Role:     domain.RoleRecruiter,
		})
		assert.True(t, apperror.Is(err, apperror.KindDuplicate))
		assert.Equal(t, "User already exists with this email", err.Error())
	})

	t.Run("Rejects an unknown role before touching the store", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)

		_, err := uc.Register(ctx, domain.RegisterInput{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "secret123",
			Role:     "admin",
		})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		require.NotEmpty(t, appErr.Details)
		assert.Equal(t, "role", appErr.Details[0].Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Rejects names outside the allowed characters", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)

		for _, name := range []string{"Ada <script>", "Ada 😀", "{{Ada}}"} {
			_, err := uc.Register(ctx, domain.RegisterInput{
				Name:     name,
				Email:    "ada@example.com",
				Password: "secret123",
				Role:     domain.RoleJobSeeker,
			})

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr, name)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, "name", appErr.Details[0].Field)
		}
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Accepts accented and hyphenated names", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		_, err := uc.Register(ctx, domain.RegisterInput{
			Name:     "José O'Neil-Ünal",
			Email:    "jose@example.com",
			Password: "secret123",
			Role:     domain.RoleRecruiter,
		})
		require.NoError(t, err)
	})

	t.Run("Rejects a short password", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)

		_, err := uc.Register(ctx, domain.RegisterInput{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "123",
			Role:     domain.RoleJobSeeker,
		})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := &domain.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash, Role: domain.RoleRecruiter}

	t.Run("Returns a token for valid credentials", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, tokens := newAuth(repo)
		repo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)

		result, err := uc.Login(ctx, domain.LoginInput{Email: "ADA@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "u1", result.User.ID)

		claims, err := tokens.Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
	})

	t.Run("Wrong password and unknown email fail the same way", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)
		repo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)
		repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

		_, wrongPassword := uc.Login(ctx, domain.LoginInput{Email: "ada@example.com", Password: "nope"})
		_, unknownEmail := uc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "secret123"})

		assert.True(t, apperror.Is(wrongPassword, apperror.KindUnauthenticated))
		assert.True(t, apperror.Is(unknownEmail, apperror.KindUnauthenticated))
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("Store failures are internal errors", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)
		repo.On("GetByEmail", ctx, "ada@example.com").Return(nil, errors.New("connection reset"))

		_, err := uc.Login(ctx, domain.LoginInput{Email: "ada@example.com", Password: "secret123"})
		assert.True(t, apperror.Is(err, apperror.KindInternal))
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Takes the role from the stored user", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, tokens := newAuth(repo)
		token, err := tokens.Issue("u1", string(domain.RoleJobSeeker))
		require.NoError(t, err)
		repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Role: domain.RoleRecruiter}, nil)

		actor, err := uc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, domain.Actor{ID: "u1", Role: domain.RoleRecruiter}, actor)
	})

	t.Run("Rejects a token for a deleted user", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, tokens := newAuth(repo)
		token, err := tokens.Issue("gone", string(domain.RoleJobSeeker))
		require.NoError(t, err)
		repo.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound)

		_, err = uc.Authenticate(ctx, token)
		assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
	})

	t.Run("Rejects a token signed with another secret", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc, _ := newAuth(repo)
		other := auth.NewTokenManager("other-secret", "jobconnect", time.Hour, nil)
		token, err := other.Issue("u1", string(domain.RoleJobSeeker))
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, token)
		assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Rejects a missing token", func(t *testing.T) {
		uc, _ := newAuth(new(MockUserRepo))
		_, err := uc.Authenticate(ctx, "")
		assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
	})
}
