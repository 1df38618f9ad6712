package dto

import (
	"time"

	"procura/internal/domain/auth"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// UserResponse contains public user fields.
type UserResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles,omitempty"`
}

// FromUser creates UserResponse from a domain user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		IsActive: u.IsActive,
		Roles:    u.Roles,
	}
}

// FromLoginResponse maps the domain login result.
func FromLoginResponse(r *auth.LoginResponse) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		ExpiresAt:   r.ExpiresAt,
		User:        FromUser(r.User),
	}
}
