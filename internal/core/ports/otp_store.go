package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCodeInvalid is returned when no matching verification code exists.
	ErrCodeInvalid = errors.New("invalid verification code")
	// ErrCodeExpired is returned when the code matched but its TTL has passed.
	ErrCodeExpired = errors.New("verification code expired")
)

// OTPStore holds one-time email verification codes. Consume checks the code
// and invalidates it on success; codes are single-use.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Consume(ctx context.Context, email, code string) error
}
