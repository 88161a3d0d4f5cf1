package domain

import (
	"errors"
	"time"
)

// Role is the access level granted to a user. Roles are server-assigned:
// signup always produces RoleEmployee, everything above it comes from
// provisioning.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleFinance  Role = "finance"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleHR, RoleFinance, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountPendingVerification AccountStatus = "pending_verification"
	AccountPendingApproval     AccountStatus = "pending_approval"
	AccountActive              AccountStatus = "active"
	AccountRejected            AccountStatus = "rejected"
)

// accountTransitions defines the allowed account lifecycle transitions.
var accountTransitions = map[AccountStatus][]AccountStatus{
	AccountPendingVerification: {AccountPendingApproval, AccountActive, AccountRejected},
	AccountPendingApproval:     {AccountActive, AccountRejected},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	for _, allowed := range accountTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("email already exists")
var ErrInvalidTransition = errors.New("invalid account status transition")
var ErrForbidden = errors.New("access forbidden")

// User models an account holder.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	CompanyID    string        `json:"company_id,omitempty"`
	InviteCode   string        `json:"-"`
	Phone        string        `json:"phone,omitempty"`
	ProofPath    string        `json:"-"`
	TOTPSecret   string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SessionUser is the projection of a User that is safe to persist in a
// session payload and return to clients. It never carries credentials.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Project returns the session-safe projection of the user.
func (u *User) Project() SessionUser {
	return SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
