// Package server provides the MCP server context, session tracking,
// health checks and the streamable HTTP transport for reminders-mcp.
//
// # Key Components
//
// ServerContext owns the shared Reminders client together with the
// read-only flag, metrics and audit logger used by every tool handler.
//
// HTTPServer serves the MCP streamable HTTP endpoint (/mcp) next to the
// Kubernetes-style checks registered by HealthChecker:
//   - /healthz: liveness
//   - /readyz: readiness, fails while shutting down
//   - /healthz/detailed: uptime, read-only mode and dependency checks
//
// SessionManager plugs into mcp-go server hooks to count active MCP
// sessions and expire idle ones.
//
// MetricsServer exposes Prometheus metrics on a dedicated port so the
// scrape endpoint is never reachable through the MCP listener.
package server
