package internal

import (
	"strings"
	"testing"
)

func TestNewOpaqueToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewOpaqueToken()
		if err != nil {
			t.Fatalf("NewOpaqueToken failed: %v", err)
		}
		if !ValidOpaqueToken(token) {
			t.Fatalf("generated token fails own validation: %q", token)
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("token is not URL-safe: %q", token)
		}
		if seen[token] {
			t.Fatalf("duplicate token: %q", token)
		}
		seen[token] = true
	}
}

func TestValidOpaqueToken(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"short", "abc", false},
		{"not base64url", strings.Repeat("!", 43), false},
		{"wrong length", strings.Repeat("A", 22), false},
		{"right shape", strings.Repeat("A", 43), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidOpaqueToken(tc.token); got != tc.want {
				t.Errorf("ValidOpaqueToken(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}
