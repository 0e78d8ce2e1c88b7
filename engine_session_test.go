package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classdesk/authcore/credstore"
)

func TestSessionLifecycle(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())
	ctx := context.Background()

	token, err := engine.CreateSession(ctx, "u-1", RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	info, err := engine.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if info.UserID != "u-1" || info.Role != RoleStudent {
		t.Errorf("session = %+v, want u-1/student", info)
	}

	if err := engine.RevokeSession(ctx, token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if _, err := engine.ValidateSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}

	// Revoking again is fine.
	if err := engine.RevokeSession(ctx, token); err != nil {
		t.Fatalf("second RevokeSession failed: %v", err)
	}
}

func TestRevokeOneDeviceKeepsOthers(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())
	ctx := context.Background()

	phone, err := engine.CreateSession(ctx, "u-1", RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	laptop, err := engine.CreateSession(ctx, "u-1", RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := engine.RevokeSession(ctx, phone); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}

	if _, err := engine.ValidateSession(ctx, phone); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("revoked session still valid: %v", err)
	}
	if _, err := engine.ValidateSession(ctx, laptop); err != nil {
		t.Fatalf("sibling session lost: %v", err)
	}

	n, err := engine.UserSessionCount(ctx, "u-1")
	if err != nil {
		t.Fatalf("UserSessionCount failed: %v", err)
	}
	if n != 1 {
		t.Errorf("live sessions = %d, want 1", n)
	}
}

func TestRevokeUserSessionsLogsOutEverywhere(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		token, err := engine.CreateSession(ctx, "u-1", RoleAdmin, time.Hour)
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		tokens = append(tokens, token)
	}

	n, err := engine.RevokeUserSessions(ctx, "u-1")
	if err != nil {
		t.Fatalf("RevokeUserSessions failed: %v", err)
	}
	if n != 3 {
		t.Errorf("revoked = %d, want 3", n)
	}
	for _, token := range tokens {
		if _, err := engine.ValidateSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session survived revoke-all: %v", err)
		}
	}
}

func TestValidateSessionExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())
	ctx := context.Background()

	token, err := engine.CreateSession(ctx, "u-1", RoleViewer, time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	// Redis reclaimed the row, so the token reads as gone, not merely
	// expired.
	if _, err := engine.ValidateSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())
	ctx := context.Background()

	if _, err := engine.CreateSession(ctx, "", RoleStudent, time.Hour); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty user, got %v", err)
	}
	if _, err := engine.CreateSession(ctx, "u-1", Role(99), time.Hour); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bogus role, got %v", err)
	}

	// Zero TTL falls back to the configured default.
	token, err := engine.CreateSession(ctx, "u-1", RoleStudent, 0)
	if err != nil {
		t.Fatalf("CreateSession with default ttl failed: %v", err)
	}
	info, err := engine.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if window := info.ExpiresAt.Sub(info.CreatedAt); window != 30*24*time.Hour {
		t.Errorf("default session window = %v, want 720h", window)
	}
}
