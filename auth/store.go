// Package auth, as part of the authentication module.
// This file, `store.go`, defines the user persistence boundary. The service
// depends on the UserStore interface rather than the pgx pool directly, which
// keeps the registration and login policy testable against stubs, matching
// how handlers depend on the posts service.
package auth

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore persists user records, queried by exact email match.
type UserStore interface {
	// CreateUser inserts a user and fills in the store-assigned fields.
	// A duplicate email surfaces as the driver's unique-violation error.
	CreateUser(ctx context.Context, user *User) (*User, error)
	// GetUserByEmail returns the user for an email, or pgx.ErrNoRows.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// pgxUserStore is the pgx-backed implementation of UserStore.
type pgxUserStore struct {
	db *pgxpool.Pool
}

// NewUserStore creates a UserStore backed by the given pool.
func NewUserStore(db *pgxpool.Pool) UserStore {
	return &pgxUserStore{db: db}
}

func (s *pgxUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (name, email, password)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, user.Name, user.Email, user.HashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *pgxUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, name, email, password, created_at FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
