// Package credstore provides role-keyed lookup of stored credential records
// from the platform's per-role account tables.
//
// It is the single normalization boundary between external account schemas
// and the auth core: every implementation converts its rows into the fixed
// [Record] shape exactly once, so no fallback key probing leaks into
// business logic.
//
// # Implementations
//
//   - [PostgresStore] — reads the platform's admins/students/viewers tables
//     through database/sql over the pgx stdlib driver.
//   - [MemoryStore] — in-process map, used by tests and examples.
//
// # What this package must NOT do
//
//   - Verify passwords or make authentication decisions.
//   - Import authcore or any sibling package (no upward imports).
package credstore
