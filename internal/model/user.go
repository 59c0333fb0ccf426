// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account, identified by a unique email address.
//
// PasswordHash holds the bcrypt hash of the user's password, never the
// plaintext. The `json:"-"` tag excludes it from every JSON response —
// handlers can encode a *User directly without leaking the hash.
//
// Accounts are immutable after signup: there is no profile editing, so there
// is no UpdatedAt field.
type User struct {
	ID           string    `json:"id"    db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-"     db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
