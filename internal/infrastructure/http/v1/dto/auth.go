package dto

import (
	"time"

	"quotedesk/internal/domain/auth"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Credentials converts the request into domain credentials.
func (r *LoginRequest) Credentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password}
}

// LoginResponse is the response body for a successful login.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
}

// FromTokenResult creates a login response from a domain token result.
func FromTokenResult(r *auth.TokenResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		ExpiresAt:   r.ExpiresAt,
		User: UserResponse{
			ID:        r.User.ID.String(),
			CompanyID: r.User.CompanyID.String(),
			Email:     r.User.Email,
			Name:      r.User.Name,
			Role:      r.User.Role,
		},
	}
}
