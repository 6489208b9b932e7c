package models

import (
	"time"
)

// User represents a user document in the users collection.
// PasswordHash and RefreshToken never appear in JSON responses.
type User struct {
	UserID       string    `bson:"_id" json:"id"`                            // Primary key, uuid v4
	Name         string    `bson:"name" json:"name"`                         // Display name
	Email        string    `bson:"email" json:"email"`                       // Unique, login key
	Phone        string    `bson:"phone" json:"phone"`                       // Unique
	PasswordHash string    `bson:"password_hash" json:"-"`                   // bcrypt hash, never plaintext
	IsAdmin      bool      `bson:"is_admin" json:"isAdmin"`                  // Grants access to all profiles
	IsPublic     bool      `bson:"is_public" json:"isPublic"`                // Profile visibility, default true
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`       // Optional profile text
	Photo        string    `bson:"photo,omitempty" json:"photo,omitempty"`   // URL of the stored profile image
	RefreshToken string    `bson:"refresh_token,omitempty" json:"-"`         // Current refresh token, empty when logged out
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Sanitized returns a copy of the user with the secret fields cleared.
func (u *User) Sanitized() *User {
	s := *u
	s.PasswordHash = ""
	s.RefreshToken = ""
	return &s
}

// UserUpdate carries the full-replace profile fields for updateUser.
// All fields are required on that path.
type UserUpdate struct {
	Name         string
	Email        string
	Photo        string
	Bio          string
	Phone        string
	PasswordHash string
}

// AuthUser is the identity resolved from a verified access token.
// It is attached to the request context by the auth middleware and is
// self-contained: no database round-trip is needed to build it.
type AuthUser struct {
	UserID   string
	Name     string
	IsAdmin  bool
	IsPublic bool
}
