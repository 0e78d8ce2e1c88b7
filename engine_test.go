package authcore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/classdesk/authcore/credstore"
	"github.com/classdesk/authcore/password"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// testHashParams keeps argon2 cheap so the suite stays fast.
func testHashParams() PasswordConfig {
	return PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
}

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()

	cfg := testHashParams()
	hasher, err := password.NewHasher(password.Params{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return hasher
}

func newTestEngine(t *testing.T, rdb *redis.Client, creds credstore.Store) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(Config{
			JWT:      JWTConfig{Secret: testSecret},
			Password: testHashParams(),
			Audit:    AuditConfig{Enabled: false},
			Metrics:  MetricsConfig{Enabled: true},
		}).
		WithRedis(rdb).
		WithCredentials(creds).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func seedAccount(t *testing.T, creds *credstore.MemoryStore, role Role, email, name, plaintext string) *credstore.Record {
	t.Helper()

	hash, err := newTestHasher(t).Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	rec, err := creds.Seed(role, credstore.Record{
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return rec
}
