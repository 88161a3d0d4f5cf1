package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

// Config tunes the auth service. Zero values fall back to the defaults set
// in NewAuthService.
type Config struct {
	JWTSecret           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	OTPTTL              time.Duration
	ChallengeTTL        time.Duration
	BcryptCost          int
	RequireVerification bool
	RequireApproval     bool
	RequireEmailDomain  string
}

// AuthService implements login, MFA, signup, verification, and session
// lifecycle against the injected stores.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	challenges ports.ChallengeStore
	otps       ports.OTPStore
	proofs     ports.ProofStore
	mailer     ports.Mailer
	audit      ports.AuditRecorder
	cfg        Config
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	challenges ports.ChallengeStore,
	otps ports.OTPStore,
	proofs ports.ProofStore,
	mailer ports.Mailer,
	audit ports.AuditRecorder,
	cfg Config,
	log zerolog.Logger,
) *AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 12 * time.Minute
	}
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		challenges: challenges,
		otps:       otps,
		proofs:     proofs,
		mailer:     mailer,
		audit:      audit,
		cfg:        cfg,
		log:        log,
	}
}

// Login checks primary credentials. Accounts with a TOTP secret enrolled get
// an MFA challenge instead of tokens; bad credentials come back as a result
// value, never an error.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return ports.InvalidLogin(), nil
	}
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.Record(domain.AuditEntry{Actor: email, Action: domain.AuditLoginFailed, Metadata: "unknown email", At: time.Now().UTC()})
			return ports.InvalidLogin(), nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.audit.Record(domain.AuditEntry{Actor: email, Action: domain.AuditLoginFailed, Metadata: "bad password", At: time.Now().UTC()})
		return ports.InvalidLogin(), nil
	}

	switch user.Status {
	case domain.AccountPendingVerification:
		return &ports.LoginResult{Status: ports.LoginPendingVerification, Message: "Email not verified"}, nil
	case domain.AccountPendingApproval:
		return &ports.LoginResult{Status: ports.LoginPendingApproval, Message: "Account not approved yet"}, nil
	case domain.AccountActive:
	default:
		return ports.InvalidLogin(), nil
	}

	if user.TOTPSecret != "" {
		return s.issueChallenge(ctx, user, userAgent, ip)
	}

	return s.completeLogin(ctx, user, userAgent, ip, domain.LoginCredentialsSubmitted)
}

// VerifyMFA answers a pending challenge. The challenge is consumed whether
// or not the code checks out.
func (s *AuthService) VerifyMFA(ctx context.Context, challengeID, method, code string) (*ports.LoginResult, error) {
	ch, err := s.challenges.Take(ctx, challengeID)
	if err != nil {
		if errors.Is(err, domain.ErrChallengeNotFound) {
			return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid or expired challenge"}, nil
		}
		return nil, err
	}

	if method != domain.MFAMethodTOTP || !containsMethod(ch.Methods, method) {
		return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Unsupported MFA method"}, nil
	}

	user, err := s.users.FindByID(ctx, ch.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.InvalidLogin(), nil
		}
		return nil, err
	}

	ok, err := totp.ValidateCustom(code, user.TOTPSecret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		s.audit.Record(domain.AuditEntry{Actor: user.Email, Action: domain.AuditMFAFailed, At: time.Now().UTC()})
		return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid TOTP code"}, nil
	}

	s.audit.Record(domain.AuditEntry{Actor: user.Email, Action: domain.AuditMFAPassed, At: time.Now().UTC()})
	return s.completeLogin(ctx, user, ch.UserAgent, ch.IP, ch.State)
}

// Refresh rotates the token pair bound to a refresh token. Unknown, expired,
// or orphaned sessions yield an invalid result.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	sess, err := s.sessions.Restore(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid session"}, nil
		}
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, refreshToken)
		return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid session"}, nil
	}

	user, err := s.users.FindByID(ctx, sess.User.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, refreshToken)
			return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid session"}, nil
		}
		return nil, err
	}
	if user.Status != domain.AccountActive {
		_ = s.sessions.Delete(ctx, refreshToken)
		return &ports.LoginResult{Status: ports.LoginInvalid, Message: "Invalid session"}, nil
	}

	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}
	s.audit.Record(domain.AuditEntry{Actor: user.Email, Action: domain.AuditTokenRefreshed, At: time.Now().UTC()})
	return s.completeLogin(ctx, user, sess.UserAgent, sess.IP, domain.LoginAuthenticated)
}

// Logout destroys the session behind the refresh token. Logging out an
// already-absent session is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	sess, err := s.sessions.Restore(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return err
	}
	s.audit.Record(domain.AuditEntry{Actor: sess.User.Email, Action: domain.AuditLogout, At: time.Now().UTC()})
	return nil
}

// CurrentUser returns the session projection for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.SessionUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	proj := user.Project()
	return &proj, nil
}

// issueChallenge parks the login in the mfa_pending state; VerifyMFA carries
// that state forward into completeLogin.
func (s *AuthService) issueChallenge(ctx context.Context, user *domain.User, userAgent, ip string) (*ports.LoginResult, error) {
	ch := &domain.MFAChallenge{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		State:     domain.LoginMFAPending,
		Methods:   []string{domain.MFAMethodTOTP},
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: time.Now().UTC().Add(s.cfg.ChallengeTTL),
	}
	if err := s.challenges.Put(ctx, ch, s.cfg.ChallengeTTL); err != nil {
		return nil, err
	}
	return &ports.LoginResult{
		Status:      ports.LoginMFARequired,
		Message:     "Additional verification required",
		ChallengeID: ch.ID,
		Methods:     ch.Methods,
	}, nil
}

// completeLogin issues the token pair and persists the session projection.
// The caller's login state must permit the transition to authenticated.
func (s *AuthService) completeLogin(ctx context.Context, user *domain.User, userAgent, ip string, from domain.LoginState) (*ports.LoginResult, error) {
	if !from.CanTransitionTo(domain.LoginAuthenticated) {
		return nil, fmt.Errorf("complete login from %s: %w", from, domain.ErrInvalidTransition)
	}
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.New().String(),
		User:      user.Project(),
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, refresh, sess, s.cfg.RefreshTokenTTL); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{Actor: user.Email, Action: domain.AuditLogin, At: now})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session issued")

	proj := sess.User
	return &ports.LoginResult{
		Status: ports.LoginAuthenticated,
		User:   &proj,
		Tokens: &domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.cfg.AccessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
