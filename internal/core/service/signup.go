package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

const otpLength = 6

// Signup registers a new account. The role is always employee — clients do
// not get to pick their access level. With verification enabled the account
// starts pending and a one-time code is mailed out; otherwise it is
// activated and logged in immediately.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return &ports.SignupResult{Status: ports.SignupInvalid, Message: "Name, email and password are required"}, nil
	}
	email := normalizeEmail(in.Email)

	if d := s.cfg.RequireEmailDomain; d != "" && !strings.HasSuffix(email, strings.ToLower(d)) {
		return &ports.SignupResult{Status: ports.SignupInvalid, Message: "Email must be a corporate address"}, nil
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return &ports.SignupResult{Status: ports.SignupEmailExists, Message: "Email already exists"}, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleEmployee,
		Status:       domain.AccountActive,
		CompanyID:    in.CompanyID,
		InviteCode:   in.InviteCode,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.cfg.RequireVerification {
		user.Status = domain.AccountPendingVerification
	}

	if len(in.Proof) > 0 {
		path, err := s.proofs.Save(fmt.Sprintf("%d_%s", now.Unix(), in.ProofName), in.Proof)
		if err != nil {
			return nil, fmt.Errorf("store proof document: %w", err)
		}
		user.ProofPath = path
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// The unique index is the authority; a concurrent signup may win the race.
		if errors.Is(err, domain.ErrEmailExists) {
			return &ports.SignupResult{Status: ports.SignupEmailExists, Message: "Email already exists"}, nil
		}
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Actor:    created.Email,
		Action:   domain.AuditSignupRequested,
		Metadata: "ip=" + in.IP,
		At:       now,
	})

	if !s.cfg.RequireVerification {
		login, err := s.completeLogin(ctx, created, "", in.IP, domain.LoginCredentialsSubmitted)
		if err != nil {
			return nil, err
		}
		return &ports.SignupResult{
			Status: ports.SignupAuthenticated,
			User:   login.User,
			Tokens: login.Tokens,
		}, nil
	}

	code, err := generateNumericOTP(otpLength)
	if err != nil {
		return nil, err
	}
	if err := s.otps.Save(ctx, email, code, s.cfg.OTPTTL); err != nil {
		return nil, err
	}
	body := fmt.Sprintf("Your verification code is: %s. It expires in %d minutes.", code, int(s.cfg.OTPTTL.Minutes()))
	if err := s.mailer.Send(created.Email, "CorpGPT: Verify your email", body); err != nil {
		s.log.Warn().Err(err).Str("email", created.Email).Msg("verification mail failed")
	}

	return &ports.SignupResult{
		Status:  ports.SignupPendingVerification,
		Message: "Signup request received. Check your email for the verification code.",
	}, nil
}

// VerifyOTP activates a pending account with the mailed one-time code.
// Codes are single-use; reusing one fails like any other bad code.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*ports.VerifyResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &ports.VerifyResult{OK: false, Message: "No such account"}, nil
		}
		return nil, err
	}
	if user.Status == domain.AccountActive {
		return &ports.VerifyResult{OK: true, Message: "Email already verified"}, nil
	}

	if err := s.otps.Consume(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, ports.ErrCodeExpired):
			return &ports.VerifyResult{OK: false, Message: "Code expired"}, nil
		case errors.Is(err, ports.ErrCodeInvalid):
			return &ports.VerifyResult{OK: false, Message: "Invalid code"}, nil
		}
		return nil, err
	}

	next := domain.AccountActive
	msg := "Email verified. You can now log in."
	if s.cfg.RequireApproval {
		next = domain.AccountPendingApproval
		msg = "Email verified. Your account awaits admin approval."
	}
	if !user.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("verify otp: %w (from %s to %s)", domain.ErrInvalidTransition, user.Status, next)
	}
	if err := s.users.UpdateStatus(ctx, user.ID, next); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{Actor: email, Action: domain.AuditEmailVerified, At: time.Now().UTC()})
	return &ports.VerifyResult{OK: true, Message: msg}, nil
}

// generateNumericOTP returns a random numeric code of the given length with
// uniformly distributed digits.
func generateNumericOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
