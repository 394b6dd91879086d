package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbouchet/plume/internal/core"
)

// Token kinds. A refresh token is never accepted where an access token
// is required and vice versa; the kind travels inside the signed claims.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims are the signed claims carried by every token: standard expiry
// plus the user identity and the kind discriminator.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
}

// IssueToken signs an HS256 token for userID of the given kind, valid
// for ttl from now.
func IssueToken(userID, kind string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Kind:   kind,
	})

	return token.SignedString(secret)
}

// ParseToken verifies signature, expiry and kind, and returns the user
// id. Every failure mode collapses into core.ErrInvalidToken so callers
// cannot distinguish expired from forged tokens.
func ParseToken(tokenString, expectedKind string, secret []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", core.ErrInvalidToken
	}

	if claims.UserID == "" || claims.Kind != expectedKind {
		return "", core.ErrInvalidToken
	}

	return claims.UserID, nil
}
