// Package models holds the persistent and request-scoped domain types shared
// by repositories, services and the HTTP layer.
package models

import "time"

// User roles. Role gates what a resolved identity may do beyond ownership.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleUser   = "user"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAuthor || role == RoleUser
}

// User is the stored identity record. PasswordHash is a bcrypt hash; the
// plaintext secret is never persisted. Users are deactivated, never deleted.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	Avatar       string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// SafeUser is the client-facing view of a User. It never carries the
// password hash.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Safe converts a User to its client-facing view.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
