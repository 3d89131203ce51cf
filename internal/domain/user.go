package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) Authenticated() bool {
	return a.ID != ""
}

type Profile struct {
	Phone    string `json:"phone,omitempty" validate:"omitempty,valid_phone"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500,no_emoji"`
	Company  string `json:"company,omitempty" validate:"omitempty,max=100"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in job and
// application responses.
type UserSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Profile: u.Profile}
}

type UserFilter struct {
	Role   Role
	Search string
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50,valid_name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,user_role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPatch struct {
	Name    *string  `json:"name" validate:"omitempty,min=1,max=50,valid_name"`
	Profile *Profile `json:"profile"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (Actor, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

type UserUsecase interface {
	List(ctx context.Context, actor Actor, filter UserFilter) ([]User, error)
	Get(ctx context.Context, actor Actor, id string) (*User, error)
	Update(ctx context.Context, actor Actor, id string, patch UserPatch) (*User, error)
	Delete(ctx context.Context, actor Actor, id string) error
}
