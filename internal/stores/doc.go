// Package stores provides the Redis-backed record store for the
// security-sensitive password-reset flow.
//
// # Design
//
// Each reset token persists a versioned, binary-encoded record in Redis with
// a TTL. Consume is a single atomic lookup-and-delete (Lua script), so two
// racers on the same token resolve to exactly one winner: first delete wins.
// Records are strictly single-use — consumed, expired, or reclaimed, never
// reissued.
//
// # What this package must NOT do
//
//   - Import authcore or any sibling package.
//   - Decide what a consumed token authorizes — that belongs to the Engine.
package stores
