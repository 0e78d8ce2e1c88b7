package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classdesk/authcore/session"
)

// CreateSession inserts a persisted session row and returns its opaque
// token. Many sessions may coexist per user (multi-device); rows are never
// updated in place, only inserted and deleted.
func (e *Engine) CreateSession(ctx context.Context, userID string, role Role, ttl time.Duration) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	if userID == "" {
		return "", fmt.Errorf("%w: user_id", ErrValidation)
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: role", ErrValidation)
	}
	if ttl <= 0 {
		ttl = e.config.Session.DefaultTTL
	}

	token, sess, err := e.sessionStore.Create(ctx, userID, role.String(), ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSessionCreated, true, userID, role.String(), nil, func() map[string]string {
		return map[string]string{"session_id": sess.ID}
	})

	return token, nil
}

// LookupSession fetches the row for token exactly as stored, without
// filtering on expiry — callers check ExpiresAt themselves, or use
// [Engine.ValidateSession] to get the check done.
func (e *Engine) LookupSession(ctx context.Context, token string) (*SessionInfo, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	sess, err := e.sessionStore.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		if errors.Is(err, session.ErrCorrupt) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	role, err := ParseRole(sess.Role)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	return &SessionInfo{
		ID:        sess.ID,
		UserID:    sess.UserID,
		Role:      role,
		CreatedAt: time.Unix(sess.CreatedAt, 0),
		ExpiresAt: time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// ValidateSession looks up token and additionally rejects expired rows with
// [ErrSessionExpired].
func (e *Engine) ValidateSession(ctx context.Context, token string) (*SessionInfo, error) {
	info, err := e.LookupSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !time.Now().Before(info.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return info, nil
}

// RevokeSession deletes the row for token. Idempotent: revoking an unknown
// or already-revoked token succeeds silently.
func (e *Engine) RevokeSession(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.sessionStore.Revoke(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSessionRevoked)
	e.emitAudit(ctx, auditEventSessionRevoked, true, "", "", nil, nil)
	return nil
}

// RevokeUserSessions deletes every session row for userID — "log out
// everywhere". Returns the number of rows removed.
func (e *Engine) RevokeUserSessions(ctx context.Context, userID string) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}

	count, err := e.sessionStore.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.emitAudit(ctx, auditEventSessionRevokedAll, true, userID, "", nil, func() map[string]string {
		return map[string]string{"revoked": fmt.Sprintf("%d", count)}
	})
	return count, nil
}

// UserSessionCount reports the number of live sessions for userID.
func (e *Engine) UserSessionCount(ctx context.Context, userID string) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}

	count, err := e.sessionStore.CountForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}
