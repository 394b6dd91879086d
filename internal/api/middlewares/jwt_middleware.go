package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tbouchet/plume/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// JWTMiddleware validates the Authorization bearer token and attaches
// the user id to the request context. Only access tokens pass; a
// refresh token presented here is rejected.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			userID, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), auth.KindAccess, secret)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's id set by
// JWTMiddleware. The empty string means the request never passed the
// middleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"INVALID_TOKEN","message":"missing or invalid token"}`))
}
