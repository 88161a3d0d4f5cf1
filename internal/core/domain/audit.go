package domain

import "time"

// AuditEntry records a security-relevant action taken by or on an account.
type AuditEntry struct {
	Actor    string
	Action   string
	Metadata string
	At       time.Time
}

// Audit actions recorded by the auth flows.
const (
	AuditSignupRequested = "signup_requested"
	AuditEmailVerified   = "email_verified"
	AuditLogin           = "login"
	AuditLoginFailed     = "login_failed"
	AuditMFAPassed       = "mfa_passed"
	AuditMFAFailed       = "mfa_failed"
	AuditLogout          = "logout"
	AuditTokenRefreshed  = "token_refreshed"
)
