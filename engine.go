package authcore

import (
	"github.com/classdesk/authcore/credstore"
	"github.com/classdesk/authcore/internal/stores"
	"github.com/classdesk/authcore/jwt"
	"github.com/classdesk/authcore/password"
	"github.com/classdesk/authcore/session"
)

// Engine is the auth core. Construct via [Builder.Build]; safe for
// concurrent use afterwards. Every method performs at most one keyed
// round-trip against its backing store and holds no state across calls.
type Engine struct {
	config       Config
	credentials  credstore.Store
	passwordHash *password.Hasher
	jwtManager   *jwt.Manager
	sessionStore *session.Store
	resetStore   *stores.PasswordResetStore
	loginGate    LoginGate
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close drains and stops the audit dispatcher. Safe on a nil Engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were shed under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.credentials != nil &&
		e.passwordHash != nil &&
		e.jwtManager != nil &&
		e.sessionStore != nil &&
		e.resetStore != nil
}
