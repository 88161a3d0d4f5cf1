package domain

import (
	"errors"
	"time"
)

// MFA method identifiers. WebAuthn is part of the wire contract but no
// enrolment path exists for it yet, so challenges only ever list TOTP.
const (
	MFAMethodTOTP     = "totp"
	MFAMethodWebAuthn = "webauthn"
)

var ErrChallengeNotFound = errors.New("mfa challenge not found")

// MFAChallenge is issued when primary credentials check out but the account
// has a second factor enrolled. Challenges are single-use and short-lived.
type MFAChallenge struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	State     LoginState `json:"state"`
	Methods   []string   `json:"methods"`
	UserAgent string     `json:"user_agent,omitempty"`
	IP        string     `json:"ip,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}
