package authcore

import (
	"context"
	"time"

	"github.com/classdesk/authcore/credstore"
)

// Role is the closed user-class enumeration shared with the credential
// store. Re-exported so callers of the engine never import credstore just
// for role values.
type Role = credstore.Role

const (
	// RoleAdmin is a platform administrator.
	RoleAdmin = credstore.RoleAdmin
	// RoleStudent is an enrolled student.
	RoleStudent = credstore.RoleStudent
	// RoleViewer is a content-subscription viewer.
	RoleViewer = credstore.RoleViewer
)

// ParseRole converts a wire-format role name into a Role.
func ParseRole(s string) (Role, error) { return credstore.ParseRole(s) }

// Identity is a verified principal. It is transient — produced only by
// successful credential or token verification, never persisted, and carries
// no mutable state.
type Identity struct {
	UserID      string `json:"user_id"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// roleRequiresNameCheck reports whether authentication for the role demands
// a matching display name in addition to the password. Student and viewer
// emails may be shared across enrollment cohorts in the source records, so
// the name acts as a secondary binding check.
func roleRequiresNameCheck(role Role) bool {
	switch role {
	case RoleAdmin:
		return false
	case RoleStudent, RoleViewer:
		return true
	default:
		return false
	}
}

// LoginInput is the credential set presented to [Engine.Login].
type LoginInput struct {
	Role        Role
	Email       string
	Password    string
	DisplayName string

	// Remember requests a persisted session token alongside the signed
	// assertion, enabling logout-capable flows. SessionTTL of zero uses
	// the configured default.
	Remember   bool
	SessionTTL time.Duration
}

// LoginResult is the complete outcome of a successful login. No partial
// results are ever returned.
type LoginResult struct {
	Identity     Identity
	Token        string
	SessionToken string
}

// SessionInfo is the caller-visible view of a persisted session row.
type SessionInfo struct {
	ID        string
	UserID    string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ResetTicket is the outcome of creating a password-reset token. The token
// itself is delivered out-of-band by an external collaborator.
type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}

// LoginGate is the single choke point where a caller-supplied rate limiter
// or lockout policy can be composed in front of credential verification.
// A non-nil error aborts the login before any store access.
type LoginGate func(ctx context.Context, role Role, email string) error
