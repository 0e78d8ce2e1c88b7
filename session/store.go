package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/classdesk/authcore/internal"
)

var (
	// ErrNotFound is returned when no row exists for a token.
	ErrNotFound = errors.New("session not found")
	// ErrRedisUnavailable wraps backend failures.
	ErrRedisUnavailable = errors.New("session redis unavailable")
)

// deleteSessionScript removes a session row and its user-index membership in
// one atomic step, reporting whether the row existed.
const deleteSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
return existed
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Store persists session tokens in Redis under a configurable key prefix.
// Safe for concurrent use.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore returns a Store using prefix for its key namespace.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "st"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) tokenKey(token string) string {
	return s.prefix + ":t:" + token
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

// Create generates a fresh opaque token, inserts the row with a Redis TTL
// equal to ttl, and indexes it under the user. Many sessions may coexist per
// user. Returns the token string and the stored row.
func (s *Store) Create(ctx context.Context, userID, role string, ttl time.Duration) (string, *Session, error) {
	if ttl <= 0 {
		return "", nil, errors.New("session ttl must be positive")
	}

	token, err := internal.NewOpaqueToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	encoded, err := Encode(sess)
	if err != nil {
		return "", nil, err
	}

	// The user index carries no TTL of its own; stale members are pruned
	// lazily by CountForUser and cleared by RevokeAllForUser.
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(token), encoded, ttl)
		pipe.SAdd(ctx, s.userKey(userID), token)
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return token, sess, nil
}

// Lookup fetches the row for token exactly as stored. It does not filter on
// expiry; callers must check ExpiresAt. Returns ErrNotFound for unknown,
// revoked, or TTL-reclaimed tokens.
func (s *Store) Lookup(ctx context.Context, token string) (*Session, error) {
	if !internal.ValidOpaqueToken(token) {
		return nil, ErrNotFound
	}

	data, err := s.redis.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return Decode(data)
}

// Revoke deletes the row for token. Idempotent: revoking an unknown or
// already-revoked token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if !internal.ValidOpaqueToken(token) {
		return nil
	}

	data, err := s.redis.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		// Undecodable row: still delete the key itself.
		if delErr := s.redis.Del(ctx, s.tokenKey(token)).Err(); delErr != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, delErr)
		}
		return nil
	}

	err = deleteSessionLua.Run(ctx, s.redis,
		[]string{s.tokenKey(token), s.userKey(sess.UserID)}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// RevokeAllForUser deletes every live session row indexed under userID and
// clears the index. Returns the number of rows that existed.
func (s *Store) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	tokens, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.tokenKey(token))
	}

	deleted, err := s.redis.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := s.redis.Del(ctx, s.userKey(userID)).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return int(deleted), nil
}

// CountForUser returns the number of live sessions indexed under userID,
// pruning index members whose rows were reclaimed by TTL.
func (s *Store) CountForUser(ctx context.Context, userID string) (int, error) {
	tokens, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	live := 0
	for _, token := range tokens {
		exists, err := s.redis.Exists(ctx, s.tokenKey(token)).Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if exists == 1 {
			live++
			continue
		}
		if err := s.redis.SRem(ctx, s.userKey(userID), token).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return live, nil
}
