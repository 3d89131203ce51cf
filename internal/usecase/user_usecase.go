package usecase

import (
	"context"
	"jobconnect-backend/internal/domain"
	"jobconnect-backend/internal/policy"
	"jobconnect-backend/pkg/validation"
	"strings"

	"github.com/go-playground/validator/v10"
)

type userUsecase struct {
	userRepo domain.UserRepository
	validate *validator.Validate
	deps     Deps
}

func NewUserUsecase(userRepo domain.UserRepository, validate *validator.Validate, deps Deps) domain.UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		validate: validate,
		deps:     deps.withDefaults(),
	}
}

func (u *userUsecase) List(ctx context.Context, actor domain.Actor, filter domain.UserFilter) ([]domain.User, error) {
	if err := u.deps.authorize(ctx, actor, policy.ActionUserList, policy.Resource{}, "", "Only recruiters can list users"); err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, validation.InvalidEnum("role", "user_role")
	}

	users, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "Users not found")
	}
	return users, nil
}

func (u *userUsecase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	res := policy.Resource{UserID: id}
	if err := u.deps.authorize(ctx, actor, policy.ActionUserRead, res, id, "Not authorized to view this user"); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// Update changes name and profile only. Email, role and password are not
// editable here.
func (u *userUsecase) Update(ctx context.Context, actor domain.Actor, id string, patch domain.UserPatch) (*domain.User, error) {
	res := policy.Resource{UserID: id}
	if err := u.deps.authorize(ctx, actor, policy.ActionUserUpdate, res, id, "Not authorized to update this user"); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := u.validate.Struct(patch); err != nil {
		return nil, validation.FromError(err)
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Profile != nil {
		user.Profile = *patch.Profile
	}
	user.UpdatedAt = u.deps.now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (u *userUsecase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	res := policy.Resource{UserID: id}
	if err := u.deps.authorize(ctx, actor, policy.ActionUserDelete, res, id, "Not authorized to delete this user"); err != nil {
		return err
	}
	return storeError(u.userRepo.Delete(ctx, id), "User not found")
}
