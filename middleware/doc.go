// Package middleware exposes net/http adapters for guarding routes with the
// auth core.
//
// [Guard] reads the Authorization header, verifies the signed assertion, and
// optionally enforces role membership before injecting the verified
// [authcore.Identity] into the request context for handlers to read via
// [IdentityFromContext].
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine.VerifyBearer).
//   - Make authorization decisions beyond the role allow-list it is given.
package middleware
