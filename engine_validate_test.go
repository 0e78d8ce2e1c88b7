package authcore

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/classdesk/authcore/credstore"
)

func testIdentity() Identity {
	return Identity{
		UserID:      "u-1",
		Role:        RoleStudent,
		Email:       "s@x.com",
		DisplayName: "Sam Student",
	}
}

func TestVerifyBearerHeaderShapes(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())

	token, err := engine.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"no scheme", token},
		{"wrong scheme", "Basic " + token},
		{"lowercase scheme", "bearer " + token},
		{"empty token", "Bearer "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.VerifyBearer(tc.header); !errors.Is(err, ErrMissingToken) {
				t.Fatalf("expected ErrMissingToken, got %v", err)
			}
		})
	}

	if _, err := engine.VerifyBearer("Bearer " + token); err != nil {
		t.Fatalf("well-formed header should verify: %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())

	// Sign a token that expired an hour ago under the engine's own secret.
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":  "u-1",
		"role": "student",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := engine.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTokenTamperedSignature(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())

	token, err := engine.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// Flip one signature character to another base64url character: the
	// token still parses, but the MAC no longer matches.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := engine.VerifyToken(tampered); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestVerifyTokenForeignSecret(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())

	other, err := New().
		WithConfig(Config{
			JWT:      JWTConfig{Secret: []byte("another-secret-another-secret-xx")},
			Password: testHashParams(),
			Audit:    AuditConfig{Enabled: false},
		}).
		WithRedis(rdb).
		WithCredentials(credstore.NewMemoryStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(other.Close)

	token, err := other.IssueToken(testIdentity())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := engine.VerifyToken(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestVerifyTokenGarbagePayload(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, credstore.NewMemoryStore())

	if _, err := engine.VerifyToken("not-a-jwt"); !errors.Is(err, ErrTokenPayload) {
		t.Fatalf("expected ErrTokenPayload, got %v", err)
	}
}
