// Package session provides Redis-backed persistence for opaque, revocable
// session tokens — the "remember this device / log out this device" tokens
// that a stateless signed assertion cannot express.
//
// # Storage model
//
// Each session is one Redis string keyed by its token, holding a compact
// versioned binary record, plus membership in a per-user index set for
// multi-device revocation. Rows are only ever inserted or deleted, never
// updated in place; the Redis key TTL is the sweep mechanism that reclaims
// expired rows. [Store.Lookup] returns a row exactly as stored and does NOT
// filter on expiry — callers check [Session.ExpiresAt] themselves.
//
// # What this package must NOT do
//
//   - Interpret signed assertions or make authorization decisions.
//   - Import authcore (no upward imports).
package session
