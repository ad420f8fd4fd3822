package server

import (
	"context"
	"testing"

	"github.com/teemow/reminders-mcp/internal/osascript"
	"github.com/teemow/reminders-mcp/internal/reminders"
)

type stubRunner struct{}

func (stubRunner) Run(_ context.Context, _ string) (osascript.ScriptResult, error) {
	return osascript.ScriptResult{Stdout: "Groceries, Work"}, nil
}

func newTestServerContext(t *testing.T, readOnly bool) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), reminders.NewClient(stubRunner{}), readOnly)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}
