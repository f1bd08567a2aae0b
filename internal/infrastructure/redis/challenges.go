package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-core/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	challengeKeyPrefix = "two_fa_code:"

	// ChallengeTTL bounds how long an unanswered challenge is kept.
	ChallengeTTL = 600 * time.Second

	fieldAttemptID = "login_attempt_id"
	fieldCode      = "code"
)

// consumeScript deletes the challenge hash only if both fields match.
// Returns 1 on success, 0 on mismatch and -1 when the key is absent.
var consumeScript = redis.NewScript(`
local stored = redis.call("HMGET", KEYS[1], ARGV[1], ARGV[2])
if stored[1] == false then
	return -1
end
if stored[1] == ARGV[3] and stored[2] == ARGV[4] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// ChallengeStore keeps one hash per email holding the pending challenge.
type ChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client, ttl: ChallengeTTL}
}

func (s *ChallengeStore) Put(ctx context.Context, email, attemptID, code string) error {
	key := challengeKey(email)
	// DEL first so a stale field can never survive an overwrite.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldAttemptID, attemptID, fieldCode, code)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *ChallengeStore) Get(ctx context.Context, email string) (*domain.Challenge, error) {
	vals, err := s.client.HMGet(ctx, challengeKey(email), fieldAttemptID, fieldCode).Result()
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	attemptID, ok1 := vals[0].(string)
	code, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	return &domain.Challenge{Email: email, LoginAttemptID: attemptID, Code: code}, nil
}

func (s *ChallengeStore) Remove(ctx context.Context, email string) error {
	n, err := s.client.Del(ctx, challengeKey(email)).Result()
	if err != nil {
		return fmt.Errorf("remove challenge: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *ChallengeStore) Consume(ctx context.Context, email, attemptID, code string) error {
	res, err := consumeScript.Run(ctx, s.client,
		[]string{challengeKey(email)},
		fieldAttemptID, fieldCode, attemptID, code,
	).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("consume challenge: %w", err)
	}
	switch res {
	case 1:
		return nil
	case 0:
		return domain.ErrChallengeMismatch
	default:
		return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
}

func challengeKey(email string) string {
	return challengeKeyPrefix + email
}
