package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mfakit/modules/mfa"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mfa:challenge"

// Store keeps delivered challenge codes in Redis. Expiry is delegated to
// Redis key TTLs, so an unverified code disappears on its own and no sweeper
// is needed.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	if client == nil {
		panic("challenge: client cannot be nil")
	}
	return &Store{client: client}
}

func challengeKey(userID string, method mfa.Method) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, method)
}

// Save stores the code under (userID, method), replacing any earlier pending
// code for the same pair.
func (s *Store) Save(ctx context.Context, userID string, method mfa.Method, code string, ttl time.Duration) error {
	return s.client.Set(ctx, challengeKey(userID, method), code, ttl).Err()
}

// Get returns the pending code, or mfa.ErrChallengeNotFound when no code is
// pending or it has expired.
func (s *Store) Get(ctx context.Context, userID string, method mfa.Method) (string, error) {
	code, err := s.client.Get(ctx, challengeKey(userID, method)).Result()
	if errors.Is(err, redis.Nil) {
		return "", mfa.ErrChallengeNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// Delete removes the pending code. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, userID string, method mfa.Method) error {
	return s.client.Del(ctx, challengeKey(userID, method)).Err()
}
