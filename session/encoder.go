package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Binary record layout, version 1:
//
//	[1] format version
//	[1+n] id length + id bytes
//	[1+n] user id length + user id bytes
//	[1+n] role length + role bytes
//	[8] created at (unix seconds, big endian)
//	[8] expires at (unix seconds, big endian)
//
// The format is append-only: future versions add fields, never reinterpret
// old ones.
const formatVersionV1 = 1

// ErrCorrupt is returned when a stored session blob cannot be decoded.
var ErrCorrupt = errors.New("session record corrupt")

// Encode serializes s into the version-1 binary form.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(formatVersionV1)

	for _, field := range []string{s.ID, s.UserID, s.Role} {
		if len(field) > 255 {
			return nil, errors.New("session field too long")
		}
		buf.WriteByte(byte(len(field)))
		buf.WriteString(field)
	}

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a stored blob back into a Session.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil || version != formatVersionV1 {
		return nil, ErrCorrupt
	}

	s := &Session{}
	for _, target := range []*string{&s.ID, &s.UserID, &s.Role} {
		length, err := reader.ReadByte()
		if err != nil {
			return nil, ErrCorrupt
		}
		field := make([]byte, length)
		if _, err := io.ReadFull(reader, field); err != nil {
			return nil, ErrCorrupt
		}
		*target = string(field)
	}

	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, ErrCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, ErrCorrupt
	}
	if reader.Len() != 0 {
		return nil, ErrCorrupt
	}

	return s, nil
}
