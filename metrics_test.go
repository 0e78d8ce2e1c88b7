package authcore

import (
	"context"
	"sync"
	"testing"

	"github.com/classdesk/authcore/credstore"
)

func TestMetricsTrackFlows(t *testing.T) {
	_, rdb := newTestRedis(t)
	creds := credstore.NewMemoryStore()
	engine := newTestEngine(t, rdb, creds)
	ctx := context.Background()

	seedAccount(t, creds, RoleStudent, "s@x.com", "Sam Student", "good-password")

	if _, err := engine.Authenticate(ctx, RoleStudent, "s@x.com", "good-password", "Sam Student"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if _, err := engine.Authenticate(ctx, RoleStudent, "s@x.com", "wrong", "Sam Student"); err == nil {
		t.Fatal("expected failure")
	}
	if _, err := engine.VerifyToken("garbage"); err == nil {
		t.Fatal("expected failure")
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricLoginSuccess]; got != 1 {
		t.Errorf("login successes = %d, want 1", got)
	}
	if got := snap.Counters[MetricLoginFailure]; got != 1 {
		t.Errorf("login failures = %d, want 1", got)
	}
	if got := snap.Counters[MetricTokenVerifyFailure]; got != 1 {
		t.Errorf("verify failures = %d, want 1", got)
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricLoginSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().Counters[MetricLoginSuccess]; got != 8000 {
		t.Errorf("count = %d, want 8000", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := newMetrics(MetricsConfig{})
	if m != nil {
		t.Fatal("disabled config produced metrics")
	}

	// Nil receiver is safe; snapshot is empty but usable.
	m.Inc(MetricLoginSuccess)
	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Errorf("nil metrics snapshot has %d counters", len(snap.Counters))
	}
}

func TestMetricsInvalidIDIgnored(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricID(9999))

	for id, v := range m.Snapshot().Counters {
		if v != 0 {
			t.Errorf("counter %d = %d after out-of-range inc", id, v)
		}
	}
}
