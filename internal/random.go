// Package internal holds shared helpers that must not leak into the public
// API: CSPRNG token material and its wire encoding.
package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// opaqueTokenBytes is the raw entropy of a persisted opaque token.
// 32 bytes = 256 bits, well above the 128-bit floor the token model requires.
const opaqueTokenBytes = 32

// NewOpaqueToken returns a random, unguessable token string used purely as a
// lookup key into persistent storage. base64url without padding, so it is
// safe in headers, URLs, and JSON.
func NewOpaqueToken() (string, error) {
	raw := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ValidOpaqueToken reports whether s has the exact shape NewOpaqueToken
// produces. Used to reject garbage before touching the store.
func ValidOpaqueToken(s string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil && len(raw) == opaqueTokenBytes
}

// ErrInvalidToken is returned by stores when a presented token string is not
// even shaped like a token.
var ErrInvalidToken = errors.New("invalid opaque token")
