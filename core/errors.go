package core

import "errors"

// Role names. The hierarchy is flat: a guard that admits editors does not
// implicitly admit admins unless both roles are listed.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleMember = "member"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleEditor, RoleMember:
		return true
	}
	return false
}

var (
	// ErrInvalidCredentials is returned when username/password is wrong.
	// The same error covers both "no such user" and "wrong password" so
	// login responses cannot be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a username is already taken.
	ErrConflict = errors.New("already exists")

	// ErrNotFound is returned when the target entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotFound is returned for an unknown or revoked token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a token is past its expiry.
	// The registry evicts the entry, so a retry yields ErrSessionNotFound.
	ErrSessionExpired = errors.New("session expired")
)
