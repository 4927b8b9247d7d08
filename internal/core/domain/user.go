package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInactiveAccount = errors.New("inactive account")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidRole = errors.New("invalid role")

// User models an authenticated actor in the system. Operators manage the
// patient records they created; admins manage users and can reach any record.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
