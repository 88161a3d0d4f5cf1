// Package memory provides in-memory adapters used in demo mode and tests.
// They stand in for the real Mongo/Redis infrastructure so the service can
// run self-contained with a seeded credential list.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// UserRepository is a map-backed credential store keyed by email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // email → user
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// SeedDemoUsers populates the store with the demo accounts. Passwords are
// bcrypt-hashed at seed time; the accounts are already active.
func (r *UserRepository) SeedDemoUsers() error {
	seed := []struct {
		id, name, email, password string
		role                      domain.Role
	}{
		{"u1", "Alice HR", "alice@corp.com", "password", domain.RoleHR},
		{"u2", "Bob Finance", "bob@corp.com", "password", domain.RoleFinance},
	}
	now := time.Now().UTC()
	for _, u := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		r.mu.Lock()
		r.users[u.email] = &domain.User{
			ID:           u.id,
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			Status:       domain.AccountActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.mu.Unlock()
	}
	return nil
}

// Len reports the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Status = status
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) SetTOTPSecret(_ context.Context, id, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.TOTPSecret = secret
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}
