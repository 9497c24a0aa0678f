// Package auth, as part of the authentication module.
// This file, `token.go`, implements the token service: issuing signed,
// time-limited bearer tokens binding a user identifier, and verifying them.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/inkwell-go/config"
)

const tokenIssuer = "inkwell"

// Claims defines the JWT payload. Embedding jwt.RegisteredClaims brings in
// the standard exp/iat/nbf handling.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// Verification is the typed outcome of checking a bearer token. Callers must
// branch on Valid; a zero UserID is never handed out for a valid token.
//
// A valid result only proves the token was signed by us and has not expired.
// It does not guarantee the embedded user still exists; callers that need the
// account must re-fetch it.
type Verification struct {
	Valid  bool
	UserID int    // set only when Valid
	Reason string // set only when !Valid, safe to log but not leaked to clients
}

// IssueToken produces a signed HS256 token embedding the user identifier,
// expiring TokenDuration (7 days by default) after issuance.
func IssueToken(cfg *config.AuthConfig, userID int) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a bearer token string. The result is
// rejected when the signature does not match, the token is malformed, the
// signing method is not HMAC, the expiry has passed, or the user_id claim is
// missing.
func VerifyToken(cfg *config.AuthConfig, tokenString string) Verification {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil {
		return Verification{Reason: err.Error()}
	}
	if !token.Valid {
		return Verification{Reason: "token is invalid"}
	}
	if claims.UserID == 0 {
		return Verification{Reason: "user_id claim is missing or invalid"}
	}

	return Verification{Valid: true, UserID: claims.UserID}
}
