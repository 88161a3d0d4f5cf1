package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corpgpt/auth-service/internal/api/metrics"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

// maxProofSize caps the proof-of-employment upload at 8 MiB.
const maxProofSize = 8 << 20

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user with primary credentials.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  ports.LoginResult
// @Failure      403   {object}  ports.LoginResult
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.Request().UserAgent(), clientIP(c))
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(res.Status)).Inc()
	return c.JSON(loginStatusCode(res.Status), res)
}

// VerifyMFA completes a pending MFA challenge.
//
// @Summary      Verify MFA challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      mfaVerifyRequest  true  "Challenge response"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  ports.LoginResult
// @Router       /api/auth/mfa/verify [post]
func (h *AuthHandler) VerifyMFA(c echo.Context) error {
	var req mfaVerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	res, err := h.authService.VerifyMFA(c.Request().Context(), req.ChallengeID, req.Method, req.Code)
	if err != nil {
		return err
	}

	metrics.MFAVerificationsTotal.WithLabelValues(string(res.Status)).Inc()
	return c.JSON(loginStatusCode(res.Status), res)
}

// Signup registers a new account from a multipart form with an optional
// proof-of-employment document.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        name      formData  string  true   "Display name"
// @Param        email     formData  string  true   "Email address"
// @Param        password  formData  string  true   "Password (min 8 chars)"
// @Param        proof     formData  file    false  "Proof of employment"
// @Success      201   {object}  ports.SignupResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  ports.SignupResult
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	in := ports.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		CompanyID:  req.CompanyID,
		InviteCode: req.InviteCode,
		IP:         clientIP(c),
	}

	if file, err := c.FormFile("proof"); err == nil {
		if file.Size > maxProofSize {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "proof document too large"})
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}
		in.Proof = data
		in.ProofName = file.Filename
	}

	res, err := h.authService.Signup(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(string(res.Status)).Inc()

	switch res.Status {
	case ports.SignupEmailExists:
		return c.JSON(http.StatusConflict, res)
	case ports.SignupInvalid:
		return c.JSON(http.StatusBadRequest, res)
	default:
		return c.JSON(http.StatusCreated, res)
	}
}

// VerifyOTP activates a pending account with the emailed code.
//
// @Summary      Verify email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and code"
// @Success      200   {object}  ports.VerifyResult
// @Failure      400   {object}  ports.VerifyResult
// @Router       /api/auth/verify [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	res, err := h.authService.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	if !res.OK {
		metrics.OTPVerificationsTotal.WithLabelValues("failed").Inc()
		return c.JSON(http.StatusBadRequest, res)
	}
	metrics.OTPVerificationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, res)
}

// Refresh rotates a refresh token into a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  ports.LoginResult
// @Failure      401   {object}  ports.LoginResult
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	metrics.SessionRefreshesTotal.WithLabelValues(string(res.Status)).Inc()
	return c.JSON(loginStatusCode(res.Status), res)
}

// Logout destroys the session behind a refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "Refresh token"
// @Success      204   "session destroyed"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the session projection of the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200   {object}  domain.SessionUser
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// loginStatusCode maps a login result status to its HTTP code.
func loginStatusCode(status ports.LoginStatus) int {
	switch status {
	case ports.LoginAuthenticated, ports.LoginMFARequired:
		return http.StatusOK
	case ports.LoginPendingVerification, ports.LoginPendingApproval:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}
