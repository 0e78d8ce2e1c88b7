package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/classdesk/authcore/credstore"
	"github.com/classdesk/authcore/internal/stores"
	"github.com/classdesk/authcore/jwt"
	"github.com/classdesk/authcore/password"
	"github.com/classdesk/authcore/session"
)

// Builder assembles an Engine. Construction is allocation-only; no I/O
// happens until the Engine's methods are called.
type Builder struct {
	config      Config
	redis       *redis.Client
	credentials credstore.Store
	auditSink   AuditSink
	loginGate   LoginGate

	built bool
}

// New returns a Builder preloaded with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration. Unset fields are defaulted at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSigningSecret sets the shared HS256 secret for signed assertions.
func (b *Builder) WithSigningSecret(secret []byte) *Builder {
	b.config.JWT.Secret = secret
	return b
}

// WithRedis supplies the client backing session and reset-token stores.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCredentials supplies the role-keyed credential store.
func (b *Builder) WithCredentials(store credstore.Store) *Builder {
	b.credentials = store
	return b
}

// WithAuditSink supplies the audit destination. Defaults to a no-op sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLoginGate composes a rate limiter or lockout policy in front of
// credential verification. The core itself never throttles.
func (b *Builder) WithLoginGate(gate LoginGate) *Builder {
	b.loginGate = gate
	return b
}

// Build validates configuration and wires the Engine. Signing-secret
// problems surface here, fatally, rather than on a request path.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.credentials == nil {
		return nil, errors.New("credential store is required")
	}

	cfg := fillConfigDefaults(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret:    cfg.JWT.Secret,
		AccessTTL: cfg.JWT.AccessTTL,
		Issuer:    cfg.JWT.Issuer,
		Leeway:    cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(cfg.passwordParams())
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		credentials:  b.credentials,
		passwordHash: hasher,
		jwtManager:   jwtManager,
		sessionStore: session.NewStore(b.redis, cfg.Session.RedisPrefix),
		resetStore:   stores.NewPasswordResetStore(b.redis, cfg.PasswordReset.RedisPrefix),
		loginGate:    b.loginGate,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      newMetrics(cfg.Metrics),
	}

	b.built = true
	return engine, nil
}
