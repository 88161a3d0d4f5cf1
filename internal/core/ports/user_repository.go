package ports

import (
	"context"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
// Emails are unique keys; Create returns domain.ErrEmailExists on collision.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
	SetTOTPSecret(ctx context.Context, id, secret string) error
}
