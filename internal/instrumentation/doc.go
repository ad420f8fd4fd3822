// Package instrumentation provides OpenTelemetry instrumentation for the
// reminders-mcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// Automation Metrics:
//   - automation_operations_total: Counter of osascript runs by service, operation, status
//   - automation_operation_duration_seconds: Histogram of osascript run durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool, status and list scope
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and for each
// osascript run (automation.<service>.<operation>).
//
// # Configuration
//
// The CLI builds a Config from the telemetry section of the server
// configuration (file, then environment, see internal/config).
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, cfg.Instrumentation(version))
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAutomationOperation(ctx, "reminders", "list_lists", "success", time.Since(start))
//	recorder.RecordToolInvocationWithList(ctx, "list_reminders", "success", "Groceries", time.Since(start))
package instrumentation
