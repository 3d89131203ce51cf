package postgres

import (
	"context"
	"jobconnect-backend/internal/domain"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, role, phone, location, bio, company, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Profile.Phone, &user.Profile.Location, &user.Profile.Bio, &user.Profile.Company,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create relies on users_email_key for email uniqueness.
func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Profile.Phone, user.Profile.Location, user.Profile.Bio, user.Profile.Company,
		user.CreatedAt, user.UpdatedAt,
	)
	return translate(err, "create user")
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get user")
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, translate(err, "get user by email")
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var w where
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(name ILIKE ? OR email ILIKE ?)", containsPattern(s))
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		users = append(users, *user)
	}
	return users, translate(rows.Err(), "list users")
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $2, phone = $3, location = $4, bio = $5, company = $6, updated_at = $7
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Name,
		user.Profile.Phone, user.Profile.Location, user.Profile.Bio, user.Profile.Company,
		user.UpdatedAt,
	)
	if err != nil {
		return translate(err, "update user")
	}
	return affected(tag)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete user")
	}
	return affected(tag)
}
