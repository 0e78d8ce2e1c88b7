// Package password implements credential hashing and verification for the
// auth core.
//
// # Output format
//
// New hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # Legacy rows
//
// The platform's older account tables still contain plaintext passwords.
// [VerifyStored] recognizes the modern form by its versioned prefix and
// falls back to a constant-time plaintext comparison for everything else.
// New writes always produce the modern form; the fallback exists only so
// un-migrated rows keep working until their next password change.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other authcore package.
package password
