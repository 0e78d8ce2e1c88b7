package authcore

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/classdesk/authcore/credstore"
)

// newAuditedEngine builds an engine with audit enabled on sink.
func newAuditedEngine(t *testing.T, sink AuditSink) (*Engine, *credstore.MemoryStore) {
	t.Helper()

	_, rdb := newTestRedis(t)
	creds := credstore.NewMemoryStore()

	engine, err := New().
		WithConfig(Config{
			JWT:      JWTConfig{Secret: testSecret},
			Password: testHashParams(),
			Audit:    AuditConfig{Enabled: true, BufferSize: 64, DropIfFull: true},
			Metrics:  MetricsConfig{Enabled: true},
		}).
		WithRedis(rdb).
		WithCredentials(creds).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, creds
}

func waitForEvent(t *testing.T, events <-chan AuditEvent) AuditEvent {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func TestLoginEmitsAuditTrail(t *testing.T) {
	sink := NewChannelSink(16)
	engine, creds := newAuditedEngine(t, sink)
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	seedAccount(t, creds, RoleStudent, "s@x.com", "Sam Student", "good-password")

	if _, err := engine.Authenticate(ctx, RoleStudent, "s@x.com", "good-password", "Sam Student"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	event := waitForEvent(t, sink.Events())
	if event.EventType != "login_success" {
		t.Errorf("event type = %q, want login_success", event.EventType)
	}
	if !event.Success {
		t.Error("success event flagged as failure")
	}
	if event.IP != "203.0.113.9" {
		t.Errorf("event IP = %q, want the context client IP", event.IP)
	}
	if event.Role != "student" {
		t.Errorf("event role = %q, want student", event.Role)
	}
}

func TestFailedLoginAuditCarriesReason(t *testing.T) {
	sink := NewChannelSink(16)
	engine, creds := newAuditedEngine(t, sink)
	ctx := context.Background()

	seedAccount(t, creds, RoleStudent, "s@x.com", "Sam Student", "good-password")

	if _, err := engine.Authenticate(ctx, RoleStudent, "s@x.com", "wrong-password", "Sam Student"); err == nil {
		t.Fatal("expected authentication failure")
	}

	event := waitForEvent(t, sink.Events())
	if event.EventType != "login_failure" {
		t.Errorf("event type = %q, want login_failure", event.EventType)
	}
	if event.Success {
		t.Error("failure event flagged as success")
	}
	// The precise cause lives only in audit metadata; the caller-facing
	// error stays generic.
	if event.Metadata["reason"] != "bad_password" {
		t.Errorf("reason = %q, want bad_password", event.Metadata["reason"])
	}
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	sink := sinkFunc(func(_ context.Context, event AuditEvent) {
		mu.Lock()
		seen = append(seen, event.EventType)
		mu.Unlock()
	})

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 32}, sink)
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: "login_success"})
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 10 {
		t.Errorf("delivered = %d, want all 10 queued events", len(seen))
	}
}

func TestDispatcherShedsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := sinkFunc(func(context.Context, AuditEvent) {
		<-block
	})

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// One event may be in flight at the sink and one in the buffer; pushing
	// well past that must shed, not block.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: "login_success"})
	}
	if d.Dropped() == 0 {
		t.Error("saturated dispatcher dropped nothing")
	}

	close(block)
	d.Close()
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled config produced a dispatcher")
	}
	// Nil receiver is safe everywhere.
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Error("nil dispatcher reported drops")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Unix(1700000000, 0).UTC(),
		EventType: "session_created",
		UserID:    "u-1",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{
		EventType: "session_revoked",
		Success:   true,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	var event AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if event.EventType != "session_created" || event.UserID != "u-1" {
		t.Errorf("decoded = %+v", event)
	}
}

// sinkFunc adapts a function to AuditSink.
type sinkFunc func(ctx context.Context, event AuditEvent)

func (f sinkFunc) Emit(ctx context.Context, event AuditEvent) { f(ctx, event) }
