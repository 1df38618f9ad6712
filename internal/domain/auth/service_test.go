package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
)

type memUserRepo struct {
	byEmail map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return apperror.NewDuplicate("user", "email", u.Email)
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func newAuthService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "buyer@example.com", "s3cret-pass", []string{"buyer"})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	resp, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "buyer@example.com", "s3cret-pass", nil)
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	// unknown email reports the same generic error as a wrong password
	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "buyer@example.com", "s3cret-pass", nil)
	require.NoError(t, err)
	repo.byEmail["buyer@example.com"].IsActive = false

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), "buyer@example.com", "short", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateToken_Roundtrip(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))

	userID := id.New()
	token, _, err := jwtService.GenerateAccessToken(userID.String(), "buyer@example.com", []string{"buyer"})
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, []string{"buyer"}, claims.Roles)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	other := NewJWTService(DefaultJWTConfig("other-secret"))

	token, _, err := jwtService.GenerateAccessToken(id.New().String(), "buyer@example.com", nil)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
