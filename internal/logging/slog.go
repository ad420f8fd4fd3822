package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyService      = "service"
	KeyList         = "list"
	KeyReminderHash = "reminder_hash"
	KeyDuration     = "duration"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyTool         = "tool"
)

// Status values for consistent logging.
// Duplicated from the instrumentation package, which imports this one.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}
	return l, nil
}

// NewLogger creates a slog.Logger writing to w in the given format.
// The stdio transport owns stdout, so callers pass os.Stderr.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
	}
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns a slog attribute for the service name.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// List returns a slog attribute for a Reminders list name.
// An empty name is logged as "*" to mark an all-lists operation.
func List(name string) slog.Attr {
	if name == "" {
		name = "*"
	}
	return slog.String(KeyList, name)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeTitle returns a hashed representation of a reminder title.
// Log entries for the same reminder can be correlated without exposing its text.
func AnonymizeTitle(title string) string {
	if title == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(title))
	return "reminder:" + hex.EncodeToString(hash[:8])
}

// ReminderHash returns a slog attribute with the anonymized reminder title.
//
// Usage:
//
//	logger.Info("reminder completed", logging.ReminderHash(name))
func ReminderHash(title string) slog.Attr {
	return slog.String(KeyReminderHash, AnonymizeTitle(title))
}

// SanitizeText returns a length indicator for free text such as notes.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[text:%d chars]", len([]rune(text)))
}
