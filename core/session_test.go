package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySessionIssueLookup(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess, err := store.Issue(ctx, "alice", RoleMember, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("issued session has empty token")
	}

	got, err := store.Lookup(ctx, sess.Token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Username != "alice" || got.Role != RoleMember {
		t.Fatalf("lookup returned username=%q role=%q", got.Username, got.Role)
	}

	if _, err := store.Lookup(ctx, "no-such-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown token: got %v, want ErrSessionNotFound", err)
	}
}

func TestMemorySessionTTL(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	short, err := store.Issue(ctx, "alice", RoleMember, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	long, err := store.Issue(ctx, "alice", RoleMember, true)
	if err != nil {
		t.Fatalf("issue persistent: %v", err)
	}

	if got := short.ExpiresAt.Sub(now); got != SessionTTL {
		t.Fatalf("default ttl = %v, want %v", got, SessionTTL)
	}
	if got := long.ExpiresAt.Sub(now); got != PersistentSessionTTL {
		t.Fatalf("persistent ttl = %v, want %v", got, PersistentSessionTTL)
	}
}

func TestMemorySessionExpiryEvicts(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	sess, err := store.Issue(ctx, "alice", RoleMember, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Still valid one second before the deadline.
	now = sess.ExpiresAt.Add(-time.Second)
	if _, err := store.Lookup(ctx, sess.Token); err != nil {
		t.Fatalf("lookup before expiry: %v", err)
	}

	now = sess.ExpiresAt.Add(time.Second)
	if _, err := store.Lookup(ctx, sess.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("first lookup after expiry: got %v, want ErrSessionExpired", err)
	}
	// The entry must be gone, not just refused once.
	if _, err := store.Lookup(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second lookup after expiry: got %v, want ErrSessionNotFound", err)
	}
}

func TestMemorySessionRevokeIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess, err := store.Issue(ctx, "alice", RoleMember, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := store.Revoke(ctx, sess.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Lookup(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("lookup after revoke: got %v, want ErrSessionNotFound", err)
	}
	if err := store.Revoke(ctx, sess.Token); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestNewTokenEntropy(t *testing.T) {
	if _, err := NewToken(8); err == nil {
		t.Fatal("expected error for undersized token")
	}

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok, err := NewToken(tokenBytes)
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		// 32 raw bytes -> 43 base64url chars.
		if len(tok) != 43 {
			t.Fatalf("token length = %d, want 43", len(tok))
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}
