package ports

import (
	"context"
	"time"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// SessionStore persists session payloads keyed by refresh token.
//
// Restore returns domain.ErrSessionNotFound for absent keys. A present but
// malformed payload is deleted and reported as absent — corrupt entries are
// recovered silently and a second Restore is a plain miss.
type SessionStore interface {
	Save(ctx context.Context, refreshToken string, session *domain.Session, ttl time.Duration) error
	Restore(ctx context.Context, refreshToken string) (*domain.Session, error)
	Delete(ctx context.Context, refreshToken string) error
}

// ChallengeStore holds pending MFA challenges. Take retrieves and removes a
// challenge in one step so each challenge can be answered at most once;
// missing or expired challenges yield domain.ErrChallengeNotFound.
type ChallengeStore interface {
	Put(ctx context.Context, challenge *domain.MFAChallenge, ttl time.Duration) error
	Take(ctx context.Context, id string) (*domain.MFAChallenge, error)
}
