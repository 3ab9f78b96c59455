package core

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

const sessionKeyPrefix = "session:"

// RedisSessionStore implements SessionStore on a shared Redis instance so
// multiple API processes can honor the same tokens. Expiry is enforced by
// the key TTL plus an expires_at check for clock skew.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func (s *RedisSessionStore) Issue(ctx context.Context, username, role string, persistent bool) (Session, error) {
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

	key := sessionKeyPrefix + token
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"username":   sess.Username,
		"role":       sess.Role,
		"expires_at": sess.ExpiresAt.Unix(),
	})
	pipe.ExpireAt(ctx, key, sess.ExpiresAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (Session, error) {
	key := sessionKeyPrefix + token
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Session{}, err
	}
	if len(fields) == 0 {
		return Session{}, ErrSessionNotFound
	}

	expUnix, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		// Corrupt entry; drop it rather than keep serving garbage.
		_ = s.client.Del(ctx, key).Err()
		return Session{}, ErrSessionNotFound
	}
	expiresAt := time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		_ = s.client.Del(ctx, key).Err()
		return Session{}, ErrSessionExpired
	}

	return Session{
		Token:     token,
		Username:  fields["username"],
		Role:      fields["role"],
		ExpiresAt: expiresAt,
	}, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
