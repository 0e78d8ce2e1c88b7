package session

import "time"

// Session is a persisted session-token row. Role is carried as its wire
// name; the engine converts back to the closed role type on lookup.
type Session struct {
	ID        string
	UserID    string
	Role      string
	CreatedAt int64
	ExpiresAt int64
}

// Expired reports whether the row is past its expiry at the given instant.
// Lookup never applies this itself.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
