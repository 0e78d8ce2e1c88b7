package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/classdesk/authcore/internal"
)

const resetRecordVersionV1 = 1

var (
	// ErrResetNotFound is returned when no usable record exists for a token:
	// unknown, already consumed, or expired.
	ErrResetNotFound = errors.New("reset record not found")
	// ErrResetRedisUnavailable wraps backend failures.
	ErrResetRedisUnavailable = errors.New("reset redis unavailable")
)

// PasswordResetRecord is the persisted payload behind a reset token. The
// email/role pair is what a successful consume hands back to the caller.
type PasswordResetRecord struct {
	ID        string
	Email     string
	Role      uint8
	CreatedAt int64
	ExpiresAt int64
}

// consumeScript deletes the record in the same atomic step that reads it,
// so concurrent consumers racing on one token see at most one non-nil reply.
const consumeScript = `
local data = redis.call("GET", KEYS[1])
if data == false then
  return false
end
redis.call("DEL", KEYS[1])
return data
`

var consumeLua = redis.NewScript(consumeScript)

// PasswordResetStore persists single-use reset tokens in Redis.
type PasswordResetStore struct {
	redis  *redis.Client
	prefix string
}

// NewPasswordResetStore returns a store namespaced under prefix.
func NewPasswordResetStore(client *redis.Client, prefix string) *PasswordResetStore {
	if prefix == "" {
		prefix = "pr"
	}
	return &PasswordResetStore{redis: client, prefix: prefix}
}

func (s *PasswordResetStore) key(token string) string {
	return s.prefix + ":" + token
}

// Create generates an opaque token and persists a record for (email, role)
// expiring after ttl. The Redis TTL doubles as garbage collection for rows
// nobody ever consumes.
func (s *PasswordResetStore) Create(ctx context.Context, email string, role uint8, ttl time.Duration) (string, *PasswordResetRecord, error) {
	if ttl <= 0 {
		return "", nil, errors.New("reset ttl must be positive")
	}

	token, err := internal.NewOpaqueToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	record := &PasswordResetRecord{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	encoded, err := encodeResetRecord(record)
	if err != nil {
		return "", nil, err
	}

	if err := s.redis.Set(ctx, s.key(token), encoded, ttl).Err(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrResetRedisUnavailable, err)
	}

	return token, record, nil
}

// Consume atomically removes the record for token and returns it. Exactly
// one concurrent consumer can win; everyone else gets ErrResetNotFound.
//
// An expired-but-present row is deleted by the same atomic step and reported
// as ErrResetNotFound: consumption and expiry are both terminal, and neither
// leaves the row behind.
func (s *PasswordResetStore) Consume(ctx context.Context, token string) (*PasswordResetRecord, error) {
	if !internal.ValidOpaqueToken(token) {
		return nil, ErrResetNotFound
	}

	raw, err := consumeLua.Run(ctx, s.redis, []string{s.key(token)}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrResetRedisUnavailable, err)
	}

	data, ok := raw.(string)
	if !ok {
		return nil, ErrResetNotFound
	}

	record, err := decodeResetRecord([]byte(data))
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() >= record.ExpiresAt {
		return nil, ErrResetNotFound
	}

	return record, nil
}

// Peek reads a record without consuming it. Expired rows read as absent.
func (s *PasswordResetStore) Peek(ctx context.Context, token string) (*PasswordResetRecord, error) {
	if !internal.ValidOpaqueToken(token) {
		return nil, ErrResetNotFound
	}

	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrResetRedisUnavailable, err)
	}

	record, err := decodeResetRecord(data)
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() >= record.ExpiresAt {
		return nil, ErrResetNotFound
	}

	return record, nil
}

func encodeResetRecord(record *PasswordResetRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(resetRecordVersionV1)
	buf.WriteByte(record.Role)

	if err := binary.Write(&buf, binary.BigEndian, record.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	for _, field := range []string{record.ID, record.Email} {
		if len(field) > 255 {
			return nil, errors.New("reset record field too long")
		}
		buf.WriteByte(byte(len(field)))
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeResetRecord(data []byte) (*PasswordResetRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil || version != resetRecordVersionV1 {
		return nil, errors.New("invalid reset record version")
	}

	record := &PasswordResetRecord{}
	record.Role, err = reader.ReadByte()
	if err != nil {
		return nil, errors.New("invalid reset record")
	}

	if err := binary.Read(reader, binary.BigEndian, &record.CreatedAt); err != nil {
		return nil, errors.New("invalid reset record")
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, errors.New("invalid reset record")
	}

	for _, target := range []*string{&record.ID, &record.Email} {
		length, err := reader.ReadByte()
		if err != nil {
			return nil, errors.New("invalid reset record")
		}
		field := make([]byte, length)
		if _, err := io.ReadFull(reader, field); err != nil {
			return nil, errors.New("invalid reset record")
		}
		*target = string(field)
	}

	return record, nil
}
