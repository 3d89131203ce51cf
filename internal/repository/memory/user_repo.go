package memory

import (
	"context"
	"jobconnect-backend/internal/domain"
	"sort"
	"strings"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.ID]; exists {
		return domain.ErrDuplicate
	}
	if _, taken := r.s.emails[user.Email]; taken {
		return domain.ErrDuplicate
	}
	r.s.users[user.ID] = *user
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := r.s.users[id]
	return &user, nil
}

func (r *userRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	users := make([]domain.User, 0)
	for _, u := range r.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, k int) bool {
		if users[i].CreatedAt.Equal(users[k].CreatedAt) {
			return users[i].ID < users[k].ID
		}
		return users[i].CreatedAt.After(users[k].CreatedAt)
	})
	return users, nil
}

// Update writes name and profile. Email, role and password are immutable
// through this path.
func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Name = user.Name
	current.Profile = user.Profile
	current.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = current
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.emails, user.Email)
	delete(r.s.users, id)
	return nil
}
