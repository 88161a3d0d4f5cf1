package ports

import (
	"context"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

// LoginStatus classifies the outcome of a login attempt. Authentication
// failures are result values, never errors: an error return from the service
// means infrastructure trouble, not bad credentials.
type LoginStatus string

const (
	LoginAuthenticated       LoginStatus = "authenticated"
	LoginMFARequired         LoginStatus = "mfa_required"
	LoginPendingVerification LoginStatus = "pending_verification"
	LoginPendingApproval     LoginStatus = "pending_approval"
	LoginInvalid             LoginStatus = "invalid"
)

// LoginResult is the outcome of Login, VerifyMFA, or Refresh.
type LoginResult struct {
	Status      LoginStatus         `json:"status"`
	Message     string              `json:"message,omitempty"`
	User        *domain.SessionUser `json:"user,omitempty"`
	Tokens      *domain.TokenPair   `json:"tokens,omitempty"`
	ChallengeID string              `json:"challenge_id,omitempty"`
	Methods     []string            `json:"methods,omitempty"`
}

// InvalidLogin returns the canonical failed-credentials result. Unknown email
// and wrong password are indistinguishable to the caller.
func InvalidLogin() *LoginResult {
	return &LoginResult{Status: LoginInvalid, Message: "Invalid credentials"}
}

// SignupStatus classifies the outcome of a signup attempt.
type SignupStatus string

const (
	SignupAuthenticated       SignupStatus = "authenticated"
	SignupPendingVerification SignupStatus = "pending_verification"
	SignupEmailExists         SignupStatus = "email_exists"
	SignupInvalid             SignupStatus = "invalid"
)

// SignupResult is the outcome of Signup. Tokens are only present when email
// verification is disabled and the account is activated immediately.
type SignupResult struct {
	Status  SignupStatus        `json:"status"`
	Message string              `json:"message,omitempty"`
	User    *domain.SessionUser `json:"user,omitempty"`
	Tokens  *domain.TokenPair   `json:"tokens,omitempty"`
}

// SignupInput carries the signup form fields plus the optional
// proof-of-employment document.
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	CompanyID  string
	InviteCode string
	Proof      []byte
	ProofName  string
	IP         string
}

// VerifyResult is the outcome of an OTP verification.
type VerifyResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// AuthService exposes the authentication and account lifecycle operations.
type AuthService interface {
	Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error)
	VerifyMFA(ctx context.Context, challengeID, method, code string) (*LoginResult, error)
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*VerifyResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*domain.SessionUser, error)
}
