package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no credential record exists for the
	// given (role, email) pair.
	ErrNotFound = errors.New("credential record not found")
	// ErrUnknownRole is returned when a role value is outside the closed
	// role set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnavailable wraps backend failures so callers can distinguish
	// "no such row" from "store down".
	ErrUnavailable = errors.New("credential store unavailable")
)

// Role is the closed set of user classes the platform serves. Every
// role-dependent branch in the auth core switches exhaustively over these
// values; adding a role is a compile-visible change, not a new map key.
type Role uint8

const (
	// RoleAdmin is a platform administrator. Admins bypass ownership checks.
	RoleAdmin Role = iota
	// RoleStudent is an enrolled student.
	RoleStudent
	// RoleViewer is a content-subscription (VOD) viewer.
	RoleViewer
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleStudent, RoleViewer}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleStudent:
		return "student"
	case RoleViewer:
		return "viewer"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleViewer:
		return true
	default:
		return false
	}
}

// ParseRole converts a wire-format role name into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "student":
		return RoleStudent, nil
	case "viewer":
		return RoleViewer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// MarshalJSON encodes the role as its wire name.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON decodes a wire-format role name.
func (r *Role) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrUnknownRole
	}
	parsed, err := ParseRole(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Record is the fixed internal shape of a stored credential row. PasswordHash
// holds either a PHC-format argon2id hash or, for un-migrated legacy rows,
// the plaintext password; the password package disambiguates by prefix.
type Record struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the credential lookup interface the Engine depends on.
//
// Lookup returns [ErrNotFound] when no row matches; UpdatePasswordHash
// returns [ErrNotFound] when the target row vanished between consume and
// write. Both return errors wrapping [ErrUnavailable] on backend failure.
type Store interface {
	Lookup(ctx context.Context, role Role, email string) (*Record, error)
	UpdatePasswordHash(ctx context.Context, role Role, email, passwordHash string) error
}
