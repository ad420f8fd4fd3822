// Package logging provides structured logging utilities for reminders-mcp.
//
// All logging goes through log/slog. Helpers here keep attribute names
// consistent and keep reminder content out of logs unless asked for.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "complete_reminder")
//	logger.Info("reminder completed",
//	    logging.List(listName),
//	    logging.ReminderHash(name),
//	    logging.Status("success"))
//
// Build the process logger from CLI flags:
//
//	level, err := logging.ParseLevel("debug")
//	logger, err := logging.NewLogger(os.Stderr, level, logging.FormatJSON)
//
// Logs are always written to stderr. In stdio mode stdout carries the MCP
// protocol stream.
package logging
