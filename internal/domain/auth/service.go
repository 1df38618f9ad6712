package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"procura/internal/core/apperror"
	"procura/pkg/logger"
)

// Service handles authentication flows.
type Service struct {
	users UserRepository
	jwt   *JWTService
}

func NewService(users UserRepository, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.NewForbidden("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, apperror.NewInternal(fmt.Errorf("password verification failed: %w", err))
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, user.Roles)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("token generation failed: %w", err))
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string, roles []string) (*User, error) {
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("password hashing failed: %w", err))
	}

	user := NewUser(email, hash)
	user.Roles = roles
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
