// Package auth provides the authentication boundary: users, credentials,
// and the JWT contract the HTTP layer relies on.
package auth

import (
	"context"
	"regexp"
	"time"

	"quotedesk/internal/core/apperror"
	appctx "quotedesk/internal/core/context"
	"quotedesk/internal/core/id"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a system user. Users belong to exactly one company and
// carry an explicit permission map; the "admin" role bypasses the map.
type User struct {
	ID                  id.ID                              `db:"id" json:"id"`
	CompanyID           id.ID                              `db:"company_id" json:"companyId"`
	Email               string                             `db:"email" json:"email"`
	PasswordHash        string                             `db:"password_hash" json:"-"`
	Name                string                             `db:"name" json:"name"`
	Role                string                             `db:"role" json:"role"`
	Permissions         map[string]appctx.PermissionSet    `db:"permissions" json:"permissions,omitempty"`
	IsActive            bool                               `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time                         `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int                                `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time                         `db:"locked_until" json:"-"`
	CreatedAt           time.Time                          `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time                          `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a new active user for a company.
func NewUser(companyID id.ID, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           id.New(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "member",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if id.IsNil(u.CompanyID) {
		return apperror.NewValidation("company is required").WithDetail("field", "companyId")
	}
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if !emailRe.MatchString(u.Email) {
		return apperror.NewValidation("email is invalid").WithDetail("field", "email")
	}
	return nil
}

// IsLocked returns true if the account is locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks whether the account may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter and locks the
// account once maxAttempts is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResult is returned from a successful login.
type TokenResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
	User        *User     `json:"user"`
}
