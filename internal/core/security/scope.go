package security

import (
	"context"
	"fmt"

	"quotedesk/internal/core/apperror"
	appctx "quotedesk/internal/core/context"
	"quotedesk/internal/core/id"
)

// Permission defines available permissions in the system.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionCreate Permission = "create"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
)

// Resource names used in permission maps.
const (
	ResourceQuotation = "quotation"
	ResourceCustomer  = "customer"
	ResourceProduct   = "product"
)

// RoleAdmin bypasses per-resource permission checks entirely.
const RoleAdmin = "admin"

// AccessScope defines the boundaries of data visibility for the current request:
// the acting user, the owning company, and the explicit permission map.
// Every service mutation takes an AccessScope parameter; there is no ambient
// "current user" state anywhere below the HTTP layer.
type AccessScope struct {
	// UserID is the authenticated user.
	UserID string

	// CompanyID is the tenant boundary. All reads and writes are
	// restricted to records owned by this company.
	CompanyID id.ID

	// Role of the acting user. "admin" grants everything.
	Role string

	// Permissions maps resource to granted actions. Missing entries deny.
	Permissions map[string]appctx.PermissionSet
}

// NewAccessScope creates AccessScope from the authenticated user in context.
// Returns nil if no user is present.
func NewAccessScope(ctx context.Context) *AccessScope {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil
	}

	companyID, err := id.Parse(user.CompanyID)
	if err != nil {
		companyID = id.Nil()
	}

	return &AccessScope{
		UserID:      user.UserID,
		CompanyID:   companyID,
		Role:        user.Role,
		Permissions: user.Permissions,
	}
}

// IsAdmin reports whether the scope carries the admin role.
func (s *AccessScope) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// HasPermission checks if the user may perform the action on the resource.
// Deny by default: an absent resource or action key is a denial.
func (s *AccessScope) HasPermission(resource string, perm Permission) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	set, ok := s.Permissions[resource]
	if !ok {
		return false
	}
	return set[string(perm)]
}

// RequirePermission returns a Forbidden error if the permission is missing.
func (s *AccessScope) RequirePermission(resource string, perm Permission) error {
	if !s.HasPermission(resource, perm) {
		return apperror.NewForbidden(
			fmt.Sprintf("permission %s on %s required", perm, resource),
		).WithDetail("resource", resource).WithDetail("permission", perm)
	}
	return nil
}
