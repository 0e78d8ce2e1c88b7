package password

import (
	"crypto/subtle"
	"strings"
)

// IsModernHash reports whether stored carries the versioned argon2id prefix.
// Anything else in a credential column is an un-migrated legacy plaintext row.
func IsModernHash(stored string) bool {
	return strings.HasPrefix(stored, modernPrefix)
}

// VerifyStored compares a presented password against a stored credential
// column value.
//
// Modern rows verify through the argon2id scheme; legacy rows are compared
// as plaintext in constant time. A malformed modern-looking hash verifies
// false rather than falling back to plaintext, so a corrupted hash can never
// be matched literally.
func (h *Hasher) VerifyStored(presented, stored string) bool {
	if IsModernHash(stored) {
		ok, err := h.Verify(presented, stored)
		return err == nil && ok
	}

	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
