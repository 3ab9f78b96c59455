package core

import (
	"context"
	"sync"
	"time"
)

// Session TTLs. A plain login lasts a working day; "remember me" lasts a month.
const (
	SessionTTL           = 8 * time.Hour
	PersistentSessionTTL = 30 * 24 * time.Hour
)

// Session is the server-side record behind a bearer token. Role is a
// snapshot taken at login: changing the user's role later does not affect
// sessions already issued.
type Session struct {
	Token     string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// SessionStore is the session registry: an injected key-value abstraction
// so the memory-resident default can be swapped for a shared Redis store
// without touching callers.
type SessionStore interface {
	// Issue creates a session for username with the given role snapshot and
	// returns its opaque token. persistent selects the long TTL.
	Issue(ctx context.Context, username, role string, persistent bool) (Session, error)
	// Lookup resolves a token. Expired entries are evicted on sight and
	// reported as ErrSessionExpired; unknown tokens as ErrSessionNotFound.
	Lookup(ctx context.Context, token string) (Session, error)
	// Revoke removes a session. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in a mutex-guarded map for the lifetime
// of the process. All sessions are lost on restart; that is accepted for a
// single-instance deployment.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Issue(ctx context.Context, username, role string, persistent bool) (Session, error) {
	token, err := NewToken(tokenBytes)
	if err != nil {
		return Session{}, err
	}

	ttl := SessionTTL
	if persistent {
		ttl = PersistentSessionTTL
	}
	sess := Session{
		Token:     token,
		Username:  username,
		Role:      role,
		ExpiresAt: s.now().Add(ttl),
	}

	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *MemorySessionStore) Lookup(ctx context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.now().After(sess.ExpiresAt) {
		// Lazy expiry: the first lookup past the deadline evicts the entry.
		delete(s.sessions, token)
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

func (s *MemorySessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
