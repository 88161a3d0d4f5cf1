package domain

import (
	"errors"
	"time"
)

// LoginState represents the client-visible state of a login attempt.
type LoginState string

const (
	LoginAnonymous            LoginState = "anonymous"
	LoginCredentialsSubmitted LoginState = "credentials_submitted"
	LoginMFAPending           LoginState = "mfa_pending"
	LoginAuthenticated        LoginState = "authenticated"
)

// loginTransitions defines the allowed login state machine transitions.
// Authenticated loops to itself for token refresh: rotation keeps the
// session authenticated without re-submitting credentials.
var loginTransitions = map[LoginState][]LoginState{
	LoginAnonymous:            {LoginCredentialsSubmitted},
	LoginCredentialsSubmitted: {LoginAuthenticated, LoginMFAPending, LoginAnonymous},
	LoginMFAPending:           {LoginAuthenticated, LoginAnonymous},
	LoginAuthenticated:        {LoginAuthenticated, LoginAnonymous},
}

// CanTransitionTo reports whether a transition from the current login state to next is valid.
func (s LoginState) CanTransitionTo(next LoginState) bool {
	for _, allowed := range loginTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record of an authenticated session, keyed by
// its refresh token. User holds the persisted projection; the password hash
// is never part of a session.
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	UserAgent string      `json:"user_agent,omitempty"`
	IP        string      `json:"ip,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// TokenPair bundles the bearer tokens issued on successful authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
