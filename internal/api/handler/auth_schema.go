package handler

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type mfaVerifyRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Method      string `json:"method"       validate:"required,oneof=totp webauthn"`
	Code        string `json:"code"         validate:"required"`
}

// signupRequest mirrors the multipart form fields; the optional proof file
// is read separately from the multipart payload.
type signupRequest struct {
	Name       string `form:"name"        validate:"required,min=2"`
	Email      string `form:"email"       validate:"required,email"`
	Password   string `form:"password"    validate:"required,min=8"`
	Phone      string `form:"phone"`
	CompanyID  string `form:"company_id"`
	InviteCode string `form:"invite_code"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
