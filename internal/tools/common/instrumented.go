package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. The operation names the Reminders automation the tool
// performs and is attached to the span and the audit record.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("list_reminders", reminders.OpListReminders, sc, handler))
func InstrumentedToolHandler(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		args := request.GetArguments()
		listName := StringArg(args, "list_name")

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithService(instrumentation.ServiceReminders).
				WithOperation(operation).
				WithListScope(listName).
				WithReadOnly(sc.ReadOnly()).
				Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(instrumentation.ServiceReminders, operation).
			WithList(listName).
			WithTarget(StringArg(args, "name")).
			WithReadOnly(sc.ReadOnly())

		result, err := handler(ctx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			// result text may carry reminder titles, keep it off the span
			span.SetStatus(codes.Error, "tool returned an error result")
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		logging.WithTool(slog.Default(), toolName).Debug("tool invocation finished",
			logging.Status(status),
			slog.Duration(logging.KeyDuration, duration))

		if metrics != nil {
			metrics.RecordToolInvocationWithList(ctx, toolName, status, listName, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
