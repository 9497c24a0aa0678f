// Package auth, as part of the authentication module.
// This file, `models.go`, defines the User entity as stored in the database
// and used within the application's business logic.
package auth

import "time"

// User represents a registered account.
// HashedPassword carries the bcrypt hash and is never serialized; the
// `json:"-"` tag keeps it out of every API response.
type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}
