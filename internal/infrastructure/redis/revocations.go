package redisinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// bannedTokenKeyPrefix namespaces banned tokens from other keys in the same database.
const bannedTokenKeyPrefix = "banned_token:"

// RevocationRegistry stores each banned token under its own key with a TTL
// equal to the token's remaining lifetime, so entries disappear no later than
// the token itself would have expired.
type RevocationRegistry struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocationRegistry(client *redis.Client) *RevocationRegistry {
	return &RevocationRegistry{client: client, now: time.Now}
}

func (r *RevocationRegistry) Ban(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// Already expired; validation rejects it without a registry entry.
		return nil
	}
	if err := r.client.Set(ctx, bannedTokenKey(token), true, ttl).Err(); err != nil {
		return fmt.Errorf("set banned token: %w", err)
	}
	return nil
}

func (r *RevocationRegistry) IsBanned(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, bannedTokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check banned token: %w", err)
	}
	return n > 0, nil
}

func bannedTokenKey(token string) string {
	return bannedTokenKeyPrefix + token
}
