// Package common provides shared utilities for MCP tool implementations:
// argument normalization and the instrumented handler wrapper used by
// every registered tool.
package common
