package usecase

import (
	"context"
	"errors"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/pkg/apperror"
	"jobconnect-backend/pkg/audit"
	"jobconnect-backend/pkg/auth"
	"jobconnect-backend/pkg/validation"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	deps     Deps
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.TokenManager, validate *validator.Validate, deps Deps) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validate,
		deps:     deps.withDefaults(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := u.validate.Struct(input); err != nil {
		return nil, validation.FromError(err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.deps.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// users_email_key decides uniqueness; there is no lookup beforehand
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Duplicate("User already exists with this email")
		}
		return nil, apperror.Internal(err)
	}

	token, err := u.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.deps.Audit.Registered(ctx, user.ID, string(user.Role))
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (u *authUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := u.validate.Struct(input); err != nil {
		return nil, validation.FromError(err)
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.deps.Audit.LoginFailed(ctx, input.Email, "unknown_email")
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		u.deps.Audit.LoginFailed(ctx, input.Email, "wrong_password")
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := u.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.deps.Audit.LoginSucceeded(ctx, user.ID)
	return &domain.AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to an actor. The role is read from the
// stored user, not the token, so role changes and deletions take effect
// before the token expires.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, apperror.Unauthorized("Authentication required")
	}

	claims, err := u.tokens.Parse(token)
	if err != nil {
		u.deps.Audit.Log(ctx, audit.Event{
			Event:   audit.EventInvalidToken,
			Details: map[string]interface{}{"error": err.Error()},
		})
		return domain.Actor{}, apperror.Unauthorized("Invalid or expired token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, apperror.Unauthorized("User no longer exists")
		}
		return domain.Actor{}, apperror.Internal(err)
	}

	return domain.Actor{ID: user.ID, Role: user.Role}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}
