package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tbouchet/plume/internal/auth"
	"github.com/tbouchet/plume/internal/config"
	"github.com/tbouchet/plume/internal/core"
	db "github.com/tbouchet/plume/internal/core/database"
)

func newAuthService(store core.Store) *AuthService {
	return NewAuthService(store, &config.Config{
		JWTSecret:  "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})
}

func TestSignupAndLogin(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newAuthService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "ada@example.com", "ada", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "secret-password", user.PasswordHash)

	pair, err := svc.Login(ctx, "ada@example.com", "secret-password")
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)

	userID, err := auth.ParseToken(pair.AccessToken, auth.KindAccess, []byte("test-secret"))
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestSignupValidation(t *testing.T) {
	svc := newAuthService(db.NewMemoryClient())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "ada", "secret-password")
	require.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Signup(ctx, "ada@example.com", "ada", "short")
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestSignupDuplicates(t *testing.T) {
	svc := newAuthService(db.NewMemoryClient())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ada@example.com", "ada", "secret-password")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "ada@example.com", "other", "secret-password")
	require.ErrorIs(t, err, core.ErrDuplicateEmail)

	_, err = svc.Signup(ctx, "other@example.com", "ada", "secret-password")
	require.ErrorIs(t, err, core.ErrDuplicateUsername)
}

// Unknown email and wrong password must look the same to the caller.
func TestLoginInvalidCredentials(t *testing.T) {
	svc := newAuthService(db.NewMemoryClient())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ada@example.com", "ada", "secret-password")
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "ada@example.com", "wrong-password")
	require.ErrorIs(t, wrongPass, core.ErrInvalidCredentials)

	_, unknown := svc.Login(ctx, "nobody@example.com", "secret-password")
	require.ErrorIs(t, unknown, core.ErrInvalidCredentials)
	require.Equal(t, wrongPass, unknown)
}

func TestRefresh(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newAuthService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "ada@example.com", "ada", "secret-password")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ada@example.com", "secret-password")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	userID, err := auth.ParseToken(refreshed.AccessToken, auth.KindAccess, []byte("test-secret"))
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

// An access token must not be accepted where a refresh token is
// expected.
func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthService(db.NewMemoryClient())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ada@example.com", "ada", "secret-password")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "ada@example.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}
