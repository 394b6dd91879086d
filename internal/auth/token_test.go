package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tbouchet/plume/internal/core"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := IssueToken("user-123", KindAccess, secret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(tok, KindAccess, secret)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := IssueToken("u1", KindAccess, secret, -1*time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, KindAccess, secret)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("u2", KindAccess, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, KindAccess, []byte("wrong-secret"))
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestParseToken_KindMismatch(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	refresh, err := IssueToken("u3", KindRefresh, secret, time.Hour)
	require.NoError(t, err)
	access, err := IssueToken("u3", KindAccess, secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(refresh, KindAccess, secret)
	require.ErrorIs(t, err, core.ErrInvalidToken, "refresh token must not pass as access")

	_, err = ParseToken(access, KindRefresh, secret)
	require.ErrorIs(t, err, core.ErrInvalidToken, "access token must not pass as refresh")
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", KindAccess, []byte("k"))
	require.ErrorIs(t, err, core.ErrInvalidToken)
}
