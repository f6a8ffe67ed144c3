// Package session implements the server-side session store. A session maps
// an opaque token, held by the browser in a cookie, to the id of the
// logged-in user. Tokens live in Redis and expire via TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// ErrNoSession is returned when a token is unknown or has expired.
var ErrNoSession = errors.New("no such session")

// Store keeps sessions in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session Store backed by the given Redis client.
// ttl is the lifetime of each session.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create registers a new session for userID and returns its opaque token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to the user id it was issued for.
// Returns ErrNoSession when the token is unknown or expired.
func (s *Store) Get(ctx context.Context, token string) (int64, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
