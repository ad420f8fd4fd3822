package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/osascript"
	"github.com/teemow/reminders-mcp/internal/reminders"
	"github.com/teemow/reminders-mcp/internal/server"
)

type nopRunner struct{}

func (nopRunner) Run(context.Context, string) (osascript.ScriptResult, error) {
	return osascript.ScriptResult{}, nil
}

func newServerContext(t *testing.T, readOnly bool) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), reminders.NewClient(nopRunner{}), readOnly)
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t, false)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", reminders.OpListLists, sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newServerContext(t, false)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	wrapped := InstrumentedToolHandler("test_tool", reminders.OpDelete, sc, handler)
	_, err := wrapped(context.Background(), mcp.CallToolRequest{})

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	sc := newServerContext(t, false)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("error message"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", reminders.OpDelete, sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result")
	}
}

func TestInstrumentedToolHandler_WithMetrics(t *testing.T) {
	sc := newServerContext(t, false)

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetMetrics(metrics)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("[]"), nil
	}

	wrapped := InstrumentedToolHandler("list_reminders", reminders.OpListReminders, sc, handler)
	result, err := wrapped(context.Background(), callRequest(map[string]any{"list_name": "Groceries"}))

	// With a noop meter only the code path is exercised
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_AuditLog(t *testing.T) {
	sc := newServerContext(t, true)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sc.SetAuditLogger(instrumentation.NewAuditLogger(logger))

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("read-only mode"), nil
	}

	wrapped := InstrumentedToolHandler("delete_reminder", reminders.OpDelete, sc, handler)
	_, _ = wrapped(context.Background(), callRequest(map[string]any{
		"name":      "Buy milk",
		"list_name": "Groceries",
	}))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("audit log is not JSON: %v (%q)", err, buf.String())
	}
	if entry["tool"] != "delete_reminder" {
		t.Errorf("tool = %v, want delete_reminder", entry["tool"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for a failed invocation", entry["level"])
	}
	if strings.Contains(buf.String(), "Buy milk") {
		t.Errorf("audit log leaked the reminder title without PII enabled: %s", buf.String())
	}
}

func TestInstrumentedToolHandler_Span(t *testing.T) {
	recorder := recordSpans(t)
	sc := newServerContext(t, true)

	ok := InstrumentedToolHandler("list_reminder_lists", reminders.OpListLists, sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("[]"), nil
		})
	failing := InstrumentedToolHandler("complete_reminder", reminders.OpComplete, sc,
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Buy milk: AppleScript error"), nil
		})

	_, _ = ok(context.Background(), mcp.CallToolRequest{})
	_, _ = failing(context.Background(), callRequest(map[string]any{"name": "Buy milk"}))

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	if spans[0].Name() != "tool.list_reminder_lists" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", spans[0].Status().Code)
	}

	if spans[1].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[1].Status().Code)
	}
	if strings.Contains(spans[1].Status().Description, "Buy milk") {
		t.Errorf("span status leaked result text: %q", spans[1].Status().Description)
	}
}
