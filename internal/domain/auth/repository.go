package auth

import (
	"context"

	"quotedesk/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email. Emails are unique system-wide.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update persists login bookkeeping fields (last login, lock state).
	Update(ctx context.Context, user *User) error
}
