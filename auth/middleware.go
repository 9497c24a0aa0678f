// Package auth, as part of the authentication module.
// This file, `middleware.go`, defines the HTTP middleware that verifies
// bearer tokens and binds the acting identity to the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/inkwell-go/apperror"
	"github.com/user/inkwell-go/config"
)

// ContextKey is a custom type for context keys to avoid collisions with keys
// set by other packages.
type ContextKey string

// UserIDKey is the key under which the authenticated user's ID is stored in
// the request context.
const UserIDKey ContextKey = "userID"

// RequireAuth returns middleware that rejects any request without a valid
// bearer token. Rejection happens with 401 before the handler runs; handlers
// behind this middleware can rely on an identity being present.
func RequireAuth(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			result := VerifyToken(cfg, tokenString)
			if !result.Valid {
				WriteError(w, r, apperror.NewAuthError("Invalid or expired token", nil))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, result.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that binds an identity when a valid bearer
// token is presented but lets the request through anonymously otherwise.
// Used on routes whose behaviour differs for owners, such as reading a single
// post: an owner sees their own draft, everyone else does not.
func OptionalAuth(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				// No usable credential; proceed anonymously.
				next.ServeHTTP(w, r)
				return
			}

			result := VerifyToken(cfg, tokenString)
			if !result.Valid {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, result.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer {token}"
// header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperror.NewAuthError("Authorization header is missing", nil)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperror.NewAuthError("Authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns 0 and false when no identity was bound.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
