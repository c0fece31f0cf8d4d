// Package tokens tracks the currently valid token ID per user in Redis.
// Issuing a token overwrites the previous entry, which gives every user a
// single active token: logging in, refreshing, or logging out all invalidate
// whatever token was live before.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("auth_token:%s", userID)
}

// Save records jti as the user's only valid token ID. The entry expires with
// the token itself.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, key(userID), jti, ttl).Err()
}

// Current returns the user's valid token ID, or "" if none is stored.
func (s *Store) Current(ctx context.Context, userID uuid.UUID) (string, error) {
	jti, err := s.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return jti, nil
}

// Revoke drops the user's stored token ID, invalidating the active token.
func (s *Store) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, key(userID)).Err()
}
