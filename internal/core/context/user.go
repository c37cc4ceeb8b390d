// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// PermissionSet maps action name (create/read/update/delete) to a grant.
// A missing key means the action is denied.
type PermissionSet map[string]bool

// UserContext contains authenticated user information.
type UserContext struct {
	UserID    string
	CompanyID string
	Email     string
	Name      string
	Role      string
	// Permissions maps resource name ("quotation", "customer", ...) to
	// granted actions. Admins bypass this map entirely.
	Permissions map[string]PermissionSet
}

// IsAdmin reports whether the user carries the admin role.
// Admins are granted every permission on every resource.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// Can checks a single resource/action grant. Deny by default.
func (u *UserContext) Can(resource, action string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	set, ok := u.Permissions[resource]
	if !ok {
		return false
	}
	return set[action]
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetCompanyID returns the owning company ID from context or empty string.
func GetCompanyID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.CompanyID
	}
	return ""
}
