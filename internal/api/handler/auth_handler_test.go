package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error)
	verifyMFAFn func(ctx context.Context, challengeID, method, code string) (*ports.LoginResult, error)
	signupFn    func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error)
	verifyOTPFn func(ctx context.Context, email, code string) (*ports.VerifyResult, error)
	refreshFn   func(ctx context.Context, refreshToken string) (*ports.LoginResult, error)
	logoutFn    func(ctx context.Context, refreshToken string) error
	currentFn   func(ctx context.Context, userID string) (*domain.SessionUser, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password, userAgent, ip)
}

func (s *stubAuthService) VerifyMFA(ctx context.Context, challengeID, method, code string) (*ports.LoginResult, error) {
	return s.verifyMFAFn(ctx, challengeID, method, code)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, email, code string) (*ports.VerifyResult, error) {
	return s.verifyOTPFn(ctx, email, code)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.SessionUser, error) {
	return s.currentFn(ctx, userID)
}

func newTestContext(t *testing.T, method, path string, body *strings.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
			if email != "alice@corp.com" || password != "password" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Status: ports.LoginAuthenticated,
				User:   &domain.SessionUser{ID: "u1", Name: "Alice HR", Email: email, Role: domain.RoleHR},
				Tokens: &domain.TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@corp.com","password":"password"}`), echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["role"] != "hr" || user["id"] != "u1" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must never appear in the response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
			return ports.InvalidLogin(), nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@corp.com","password":"wrong"}`), echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("expected failure message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_MFARequired(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Status:      ports.LoginMFARequired,
				ChallengeID: "ch1",
				Methods:     []string{domain.MFAMethodTOTP},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"carol@corp.com","password":"s3cret"}`), echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "mfa_required" || resp["challenge_id"] != "ch1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_ValidationRejectsBadEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password, userAgent, ip string) (*ports.LoginResult, error) {
			t.Fatalf("service must not be called on invalid input")
			return nil, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":"x"}`), echo.MIMEApplicationJSON)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_Multipart(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			if in.Name != "New Hire" || in.Email != "new@corp.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if string(in.Proof) != "letter contents" || in.ProofName != "letter.pdf" {
				t.Fatalf("proof not forwarded: %q %q", in.Proof, in.ProofName)
			}
			return &ports.SignupResult{Status: ports.SignupPendingVerification, Message: "check your email"}, nil
		},
	}
	h := NewAuthHandler(stub)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "New Hire")
	_ = mw.WriteField("email", "new@corp.com")
	_ = mw.WriteField("password", "longenough")
	fw, err := mw.CreateFormFile("proof", "letter.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte("letter contents"))
	mw.Close()

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_EmailExists(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			return &ports.SignupResult{Status: ports.SignupEmailExists, Message: "Email already exists"}, nil
		},
	}
	h := NewAuthHandler(stub)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Imposter")
	_ = mw.WriteField("email", "alice@corp.com")
	_ = mw.WriteField("password", "longenough")
	mw.Close()

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email already exists") {
		t.Fatalf("expected duplicate message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_VerifyOTP(t *testing.T) {
	stub := &stubAuthService{
		verifyOTPFn: func(ctx context.Context, email, code string) (*ports.VerifyResult, error) {
			if code == "123456" {
				return &ports.VerifyResult{OK: true, Message: "verified"}, nil
			}
			return &ports.VerifyResult{OK: false, Message: "Invalid code"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/verify",
		strings.NewReader(`{"email":"new@corp.com","otp":"123456"}`), echo.MIMEApplicationJSON)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newTestContext(t, http.MethodPost, "/api/auth/verify",
		strings.NewReader(`{"email":"new@corp.com","otp":"999999"}`), echo.MIMEApplicationJSON)
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, refreshToken string) error {
			called = true
			if refreshToken != "rt" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/logout",
		strings.NewReader(`{"refresh_token":"rt"}`), echo.MIMEApplicationJSON)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(ctx context.Context, userID string) (*domain.SessionUser, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.SessionUser{ID: "u1", Name: "Alice HR", Email: "alice@corp.com", Role: domain.RoleHR}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/auth/me", nil, "")
	c.Set("user_id", "u1")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"alice@corp.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
