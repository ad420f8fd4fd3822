package server

import (
	"context"
	"testing"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
)

func TestNewServerContext_RequiresClient(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil, false)
	if err == nil {
		t.Fatal("NewServerContext() expected error for nil client")
	}
	if sc != nil {
		t.Error("NewServerContext() returned a context alongside an error")
	}
}

func TestServerContext_Accessors(t *testing.T) {
	sc := newTestServerContext(t, true)

	if sc.RemindersClient() == nil {
		t.Error("RemindersClient() = nil")
	}
	if !sc.ReadOnly() {
		t.Error("ReadOnly() = false, want true")
	}
	if sc.Metrics() != nil {
		t.Error("Metrics() should be nil until set")
	}
	if sc.AuditLogger() != nil {
		t.Error("AuditLogger() should be nil until set")
	}

	metrics := &instrumentation.Metrics{}
	sc.SetMetrics(metrics)
	if sc.Metrics() != metrics {
		t.Error("Metrics() did not return the value passed to SetMetrics")
	}

	audit := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(audit)
	if sc.AuditLogger() != audit {
		t.Error("AuditLogger() did not return the value passed to SetAuditLogger")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t, false)

	if sc.IsShutdown() {
		t.Fatal("IsShutdown() = true before Shutdown")
	}
	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown")
	}
	if sc.Context().Err() == nil {
		t.Error("Context() should be cancelled after Shutdown")
	}

	// Second call is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
