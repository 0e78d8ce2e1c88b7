package authcore

import "sync/atomic"

// MetricID identifies one in-process counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful credential verifications.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected credential verifications.
	MetricLoginFailure
	// MetricLoginGateRejected counts logins refused by the composed gate.
	MetricLoginGateRejected
	// MetricTokenIssued counts signed assertions minted.
	MetricTokenIssued
	// MetricTokenVerifyFailure counts rejected bearer verifications.
	MetricTokenVerifyFailure
	// MetricAuthorizationDenied counts role/ownership denials.
	MetricAuthorizationDenied
	// MetricSessionCreated counts persisted session rows inserted.
	MetricSessionCreated
	// MetricSessionRevoked counts session rows deleted by revocation.
	MetricSessionRevoked
	// MetricResetRequested counts reset tokens created.
	MetricResetRequested
	// MetricResetConsumed counts successful reset consumptions.
	MetricResetConsumed
	// MetricResetRejected counts unusable reset tokens presented.
	MetricResetRejected

	metricCount
)

// Metrics is a fixed array of atomic counters. Inc is wait-free; Snapshot
// copies under no lock by reading each counter atomically.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot reads every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
