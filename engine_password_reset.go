package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classdesk/authcore/credstore"
	"github.com/classdesk/authcore/internal/stores"
)

// CreatePasswordReset persists a single-use reset token for an existing
// (role, email) account and returns it for out-of-band delivery. Token
// delivery is an external collaborator's job.
//
// An unknown account fails with [ErrInvalidCredentials]; the endpoint that
// exposes this is backend-internal, and the caller decides how much of that
// to reveal.
func (e *Engine) CreatePasswordReset(ctx context.Context, role Role, email string) (*ResetTicket, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email", ErrValidation)
	}

	record, err := e.credentials.Lookup(ctx, role, email)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", role.String(), ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"email": email, "reason": "no_such_account"}
			})
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	token, resetRecord, err := e.resetStore.Create(ctx, record.Email, uint8(role), e.config.PasswordReset.TTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricResetRequested)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, record.ID, role.String(), nil, func() map[string]string {
		return map[string]string{"reset_id": resetRecord.ID}
	})

	return &ResetTicket{
		Token:     token,
		ExpiresAt: time.Unix(resetRecord.ExpiresAt, 0),
	}, nil
}

// ConsumePasswordReset atomically consumes token and returns the email and
// role it was created for. The state machine is Created -> {Consumed,
// Expired}, both terminal: a token that has been consumed or has expired
// can never authorize another password change. Under concurrent calls on
// the same token, first delete wins.
func (e *Engine) ConsumePasswordReset(ctx context.Context, token string) (string, Role, error) {
	if !e.ready() {
		return "", 0, ErrEngineNotReady
	}

	record, err := e.resetStore.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, stores.ErrResetNotFound) {
			e.metricInc(MetricResetRejected)
			e.emitAudit(ctx, auditEventPasswordResetReplay, false, "", "", ErrResetInvalid, nil)
			return "", 0, ErrResetInvalid
		}
		return "", 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	role := Role(record.Role)
	if !role.Valid() {
		e.metricInc(MetricResetRejected)
		return "", 0, ErrResetInvalid
	}

	e.metricInc(MetricResetConsumed)
	return record.Email, role, nil
}

// ResetPassword consumes token and writes a fresh argon2id hash for the
// bound account, then revokes the account's persisted sessions so a stolen
// device does not survive the reset. The new password must meet the
// configured length policy; the policy is checked before the token is
// burned.
func (e *Engine) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if len(newPassword) < e.config.PasswordReset.MinPasswordLength {
		return ErrPasswordPolicy
	}

	email, role, err := e.ConsumePasswordReset(ctx, token)
	if err != nil {
		return err
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.credentials.UpdatePasswordHash(ctx, role, email, hash); err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			// Account deleted between consume and write; the token is
			// burned either way.
			return ErrResetInvalid
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, "", role.String(), nil, func() map[string]string {
		return map[string]string{"email": email}
	})

	// Best effort: a failed revocation must not undo a completed reset.
	if record, lookupErr := e.credentials.Lookup(ctx, role, email); lookupErr == nil {
		_, _ = e.RevokeUserSessions(ctx, record.ID)
	}

	return nil
}
