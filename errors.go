package authcore

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called before
	// a successful Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrValidation is returned for malformed or missing input fields.
	ErrValidation = errors.New("invalid request")
	// ErrInvalidCredentials is the single outward-facing authentication
	// failure. Wrong password, unknown account, and display-name mismatch
	// all collapse into it so responses carry no account-existence signal;
	// the audit stream records the precise reason server-side.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned for an absent or malformed bearer header.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrTokenSignature is returned when an assertion's signature does not
	// verify.
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrTokenExpired is returned when an assertion is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenPayload is returned when an assertion's claims are missing
	// or unparseable.
	ErrTokenPayload = errors.New("token payload invalid")
	// ErrPermissionDenied is the authorization failure for role or
	// ownership denial.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSessionNotFound is returned when a session token has no live row.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session row exists but is past
	// its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrResetInvalid covers every unusable reset token: unknown, already
	// consumed, or expired. Deliberately one error — a replayed token must
	// be indistinguishable from a bogus one.
	ErrResetInvalid = errors.New("invalid or expired reset token")
	// ErrPasswordPolicy is returned when a new password fails the minimum
	// length policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrStoreUnavailable wraps credential-store and Redis outages. Maps to
	// an internal error at the boundary; details stay server-side.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
