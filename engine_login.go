package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classdesk/authcore/credstore"
)

// Authenticate verifies presented credentials against the role's credential
// store and returns a verified Identity. Read-only: no token is issued and
// no state is written.
//
// Unknown account, wrong password, and display-name mismatch all return
// [ErrInvalidCredentials]; the precise reason goes to the audit stream only.
func (e *Engine) Authenticate(ctx context.Context, role Role, email, presented, displayName string) (Identity, error) {
	if !e.ready() {
		return Identity{}, ErrEngineNotReady
	}
	if !role.Valid() {
		return Identity{}, fmt.Errorf("%w: role", ErrValidation)
	}
	if email == "" {
		return Identity{}, fmt.Errorf("%w: email", ErrValidation)
	}
	if presented == "" {
		return Identity{}, fmt.Errorf("%w: password", ErrValidation)
	}
	if roleRequiresNameCheck(role) && displayName == "" {
		return Identity{}, fmt.Errorf("%w: display_name", ErrValidation)
	}

	record, err := e.credentials.Lookup(ctx, role, email)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return Identity{}, e.failLogin(ctx, role, email, "no_such_account")
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !e.passwordHash.VerifyStored(presented, record.PasswordHash) {
		return Identity{}, e.failLogin(ctx, role, email, "bad_password")
	}

	// Secondary binding check: student/viewer emails may be shared across
	// cohorts, so the stored name must match exactly.
	if roleRequiresNameCheck(role) && record.DisplayName != displayName {
		return Identity{}, e.failLogin(ctx, role, email, "name_mismatch")
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, record.ID, role.String(), nil, nil)

	return Identity{
		UserID:      record.ID,
		Role:        role,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}, nil
}

func (e *Engine) failLogin(ctx context.Context, role Role, email, reason string) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", role.String(), ErrInvalidCredentials, func() map[string]string {
		return map[string]string{
			"email":  email,
			"reason": reason,
		}
	})
	return ErrInvalidCredentials
}

// Login runs the composed gate, verifies credentials, and mints a signed
// assertion — plus a persisted session token when input.Remember is set.
// Either the complete result is returned or a single error; never partial.
func (e *Engine) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	if e.loginGate != nil {
		if err := e.loginGate(ctx, input.Role, input.Email); err != nil {
			e.metricInc(MetricLoginGateRejected)
			e.emitAudit(ctx, auditEventLoginGateRejected, false, "", input.Role.String(), err, func() map[string]string {
				return map[string]string{"email": input.Email}
			})
			return nil, err
		}
	}

	identity, err := e.Authenticate(ctx, input.Role, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, err
	}

	token, err := e.IssueToken(identity)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Identity: identity, Token: token}

	if input.Remember {
		ttl := input.SessionTTL
		if ttl <= 0 {
			ttl = e.config.Session.DefaultTTL
		}
		sessionToken, err := e.CreateSession(ctx, identity.UserID, identity.Role, ttl)
		if err != nil {
			return nil, err
		}
		result.SessionToken = sessionToken
	}

	return result, nil
}

// IssueToken mints a signed assertion for identity with the configured TTL.
func (e *Engine) IssueToken(identity Identity) (string, error) {
	return e.IssueTokenTTL(identity, 0)
}

// IssueTokenTTL mints a signed assertion expiring after ttl. Non-positive
// ttl uses the configured default. Stateless: nothing is persisted, and the
// only failure mode beyond a broken clock is key misconfiguration, which
// Build already ruled out.
func (e *Engine) IssueTokenTTL(identity Identity, ttl time.Duration) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	token, err := e.jwtManager.CreateIdentity(
		identity.UserID,
		identity.Role.String(),
		identity.Email,
		identity.DisplayName,
		ttl,
	)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricTokenIssued)
	return token, nil
}
