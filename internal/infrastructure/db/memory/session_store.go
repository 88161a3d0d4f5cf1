package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

// SessionStore keeps JSON-serialized session payloads in memory. Payloads
// are stored as raw bytes so the restore path exercises the same
// parse-or-discard behaviour as the Redis adapter.
type SessionStore struct {
	mu       sync.Mutex
	payloads map[string]sessionEntry
}

type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{payloads: make(map[string]sessionEntry)}
}

func (s *SessionStore) Save(_ context.Context, refreshToken string, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[refreshToken] = sessionEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Restore(_ context.Context, refreshToken string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.payloads[refreshToken]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.payloads, refreshToken)
		return nil, domain.ErrSessionNotFound
	}
	var sess domain.Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		// Corrupt payload: clear it and report a plain miss.
		delete(s.payloads, refreshToken)
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, refreshToken)
	return nil
}

// Corrupt overwrites a stored payload with unparseable bytes. Test hook for
// the malformed-session recovery path.
func (s *SessionStore) Corrupt(refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.payloads[refreshToken]; ok {
		entry.data = []byte("{not json")
		s.payloads[refreshToken] = entry
	}
}

// Len reports the number of stored payloads.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

// ChallengeStore keeps pending MFA challenges in memory.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*domain.MFAChallenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{challenges: make(map[string]*domain.MFAChallenge)}
}

func (s *ChallengeStore) Put(_ context.Context, challenge *domain.MFAChallenge, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.ID] = challenge
	return nil
}

func (s *ChallengeStore) Take(_ context.Context, id string) (*domain.MFAChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	delete(s.challenges, id)
	if time.Now().After(ch.ExpiresAt) {
		return nil, domain.ErrChallengeNotFound
	}
	return ch, nil
}

// OTPStore keeps one-time verification codes in memory.
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry // email → code
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

func NewOTPStore() *OTPStore {
	return &OTPStore{codes: make(map[string]otpEntry)}
}

func (s *OTPStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = otpEntry{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *OTPStore) Consume(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok || entry.code != code {
		return ports.ErrCodeInvalid
	}
	delete(s.codes, email)
	if time.Now().After(entry.expiresAt) {
		return ports.ErrCodeExpired
	}
	return nil
}
