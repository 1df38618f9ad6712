package auth

import (
	"context"

	"procura/internal/core/id"
)

// UserRepository defines storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
