// Package authcore is the authentication and authorization core of a
// multi-role learning platform serving administrators, enrolled students,
// and content-subscription viewers.
//
// The package verifies presented credentials against per-role credential
// stores, issues HS256-signed identity assertions, enforces role- and
// ownership-based access control, and manages two classes of persisted,
// revocable tokens: long-lived opaque session tokens and single-use
// password-reset tokens, both backed by Redis.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// [Identity], and the audit/metrics value types. Credential persistence is
// delegated to a [github.com/classdesk/authcore/credstore.Store]; the
// surrounding platform (course listings, notice boards, VOD catalogs, admin
// dashboards) consumes exactly two outputs from this core: a verified
// [Identity] and a pass/fail authorization decision.
//
// # What this package must NOT do
//
//   - Manage user registration or profile CRUD.
//   - Send email or any other out-of-band token delivery.
//   - Rate-limit login attempts. [Builder.WithLoginGate] is the single choke
//     point where a caller-supplied limiter can be composed.
//
// # Concurrency
//
// Engine methods are safe for concurrent use after [Builder.Build].
// [Engine.VerifyBearer], [Engine.RequireRole], and [Engine.EnsureOwnership]
// are pure and perform no I/O; everything else does at most one keyed
// round-trip per call against Redis or the credential store.
package authcore
