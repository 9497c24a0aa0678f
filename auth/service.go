// Package auth is responsible for handling authentication logic: user
// registration, login, and bearer token issuance. Token verification lives in
// token.go; the middleware applying it to routes lives in middleware.go; the
// persistence boundary lives in store.go.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/inkwell-go/apperror"
	"github.com/user/inkwell-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations; it is how a duplicate email registration surfaces.
const pgUniqueViolation = "23505"

// AuthService provides registration and login. Dependencies are injected
// explicitly: the user store and the auth configuration (signing secret,
// token lifetime).
type AuthService struct {
	store      UserStore
	authConfig *config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, authConfig *config.AuthConfig) *AuthService {
	return &AuthService{
		store:      store,
		authConfig: authConfig,
	}
}

// Register creates a new user and issues their first bearer token.
// Registration is open to anyone; the only refusal is an email that already
// identifies an account, which surfaces as a Conflict.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name: req.Name,
		// Emails are stored lowercase so uniqueness and lookups are
		// case-insensitive.
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashedPassword),
	}

	createdUser, err := s.store.CreateUser(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("Email already registered", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := IssueToken(s.authConfig, createdUser.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{
		ID:    createdUser.ID,
		Name:  createdUser.Name,
		Email: createdUser.Email,
		Token: token,
	}, nil
}

// Login authenticates a user by email and password and issues a token.
// An unknown email and a wrong password produce the identical error, so the
// response never reveals which emails are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("Invalid credentials", nil)
		}
		log.Printf("database error in Login: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewBadRequestError("Invalid credentials", nil)
	}

	token, err := IssueToken(s.authConfig, user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}, nil
}
