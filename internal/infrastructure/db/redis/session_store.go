package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// SessionStore persists session payloads in Redis.
// Key format: session:<refresh_token>, value is the JSON session record.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, refreshToken string, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(refreshToken), data, ttl).Err()
}

func (s *SessionStore) Restore(ctx context.Context, refreshToken string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(refreshToken)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt payload: clear it and report a plain miss.
		_ = s.client.Del(ctx, s.key(refreshToken)).Err()
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, refreshToken string) error {
	return s.client.Del(ctx, s.key(refreshToken)).Err()
}

func (s *SessionStore) key(refreshToken string) string {
	return "session:" + refreshToken
}
