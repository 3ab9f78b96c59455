package core

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthService validates credentials against the user repository and issues
// bearer sessions through the session registry.
type AuthService struct {
	users      UserRepository
	sessions   SessionStore
	bcryptCost int
}

func NewAuthService(users UserRepository, sessions SessionStore, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, sessions: sessions, bcryptCost: bcryptCost}
}

// HashPassword produces the salted bcrypt hash stored for a user. Plaintext
// passwords exist only on the stack of the request that carried them.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credential pair and issues a session carrying a snapshot
// of the user's current role. Unknown user and wrong password both come back
// as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string, remember bool) (Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.sessions.Issue(ctx, u.Username, u.Role, remember)
}

// Register creates a self-service account. The role is always member;
// requestAdmin is stored as an advisory flag and grants nothing until an
// admin approves it with a role update.
func (s *AuthService) Register(ctx context.Context, username, password string, requestAdmin bool) (*UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := UserRecord{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleMember,
		RequestAdmin: requestAdmin,
		CreatedBy:    username,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Validate resolves a bearer token to its live session.
func (s *AuthService) Validate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionNotFound
	}
	return s.sessions.Lookup(ctx, token)
}

// Logout revokes the session behind token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}
