package reminders

import "fmt"

// AutomationError represents a failed AppleScript invocation
type AutomationError struct {
	// Op is the operation that failed (e.g., "list_lists", "create_reminder")
	Op string

	// Detail is the trimmed diagnostic text printed by osascript
	Detail string

	// ExitCode is the osascript exit status, or -1 if it did not run to completion
	ExitCode int

	// Err is the underlying error when the process could not run (nil for a plain non-zero exit)
	Err error
}

// Error implements the error interface
func (e *AutomationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminders %s: AppleScript error: %v", e.Op, e.Err)
	}
	if e.Detail == "" {
		return fmt.Sprintf("reminders %s: AppleScript error: exit status %d", e.Op, e.ExitCode)
	}
	return fmt.Sprintf("reminders %s: AppleScript error: %s", e.Op, e.Detail)
}

// Unwrap implements the errors.Unwrap interface
func (e *AutomationError) Unwrap() error {
	return e.Err
}
