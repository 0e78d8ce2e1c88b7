package authcore

import (
	"errors"
	"time"

	"github.com/classdesk/authcore/password"
)

// Config is the injected configuration tree for an Engine. Zero values are
// filled by defaults at Build; the shared signing secret has no default and
// must be supplied. Treated as immutable after Build.
type Config struct {
	JWT           JWTConfig
	Session       SessionConfig
	Password      PasswordConfig
	PasswordReset PasswordResetConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// JWTConfig configures signed identity assertions.
type JWTConfig struct {
	// Secret is the shared HS256 signing secret, >= 32 bytes. Missing or
	// short secrets fail Build — signing-key misconfiguration is fatal at
	// startup, never a per-request error.
	Secret []byte
	// AccessTTL is the assertion lifetime. Default 24h.
	AccessTTL time.Duration
	Issuer    string
	Leeway    time.Duration
}

// SessionConfig configures persisted session tokens.
type SessionConfig struct {
	// RedisPrefix namespaces session keys. Default "st".
	RedisPrefix string
	// DefaultTTL applies when a login requests a session without an
	// explicit TTL. Default 30 days.
	DefaultTTL time.Duration
}

// PasswordConfig carries argon2id cost parameters for new hashes.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// PasswordResetConfig configures single-use reset tokens.
type PasswordResetConfig struct {
	// RedisPrefix namespaces reset keys. Default "pr".
	RedisPrefix string
	// TTL is the reset-token lifetime. Default 60 minutes.
	TTL time.Duration
	// MinPasswordLength is the policy floor for replacement passwords.
	// Default 10 bytes.
	MinPasswordLength int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking login paths when the
	// sink falls behind. Dropped counts are observable via
	// [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			RedisPrefix: "st",
			DefaultTTL:  30 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		PasswordReset: PasswordResetConfig{
			RedisPrefix:       "pr",
			TTL:               60 * time.Minute,
			MinPasswordLength: 10,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// fillConfigDefaults overlays defaults onto unset fields without touching
// explicit values.
func fillConfigDefaults(cfg Config) Config {
	def := defaultConfig()

	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if cfg.Session.RedisPrefix == "" {
		cfg.Session.RedisPrefix = def.Session.RedisPrefix
	}
	if cfg.Session.DefaultTTL == 0 {
		cfg.Session.DefaultTTL = def.Session.DefaultTTL
	}
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = def.Password
	}
	if cfg.PasswordReset.RedisPrefix == "" {
		cfg.PasswordReset.RedisPrefix = def.PasswordReset.RedisPrefix
	}
	if cfg.PasswordReset.TTL == 0 {
		cfg.PasswordReset.TTL = def.PasswordReset.TTL
	}
	if cfg.PasswordReset.MinPasswordLength == 0 {
		cfg.PasswordReset.MinPasswordLength = def.PasswordReset.MinPasswordLength
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Secret) == 0 {
		return errors.New("jwt secret is required")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return errors.New("jwt access ttl must be positive")
	}
	if cfg.Session.DefaultTTL <= 0 {
		return errors.New("session default ttl must be positive")
	}
	if cfg.PasswordReset.TTL <= 0 {
		return errors.New("password reset ttl must be positive")
	}
	if cfg.PasswordReset.MinPasswordLength < 1 {
		return errors.New("password reset minimum length must be positive")
	}
	return nil
}

func (cfg Config) passwordParams() password.Params {
	return password.Params{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	}
}
