package reminders

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/osascript"
)

// Operation names used for errors, logs, metrics and spans
const (
	OpListLists      = "list_lists"
	OpListReminders  = "list_reminders"
	OpCreateReminder = "create_reminder"
	OpComplete       = "complete_reminder"
	OpUpdate         = "update_reminder"
	OpDelete         = "delete_reminder"
)

// OperationRecorder receives the outcome of every script run by the client
type OperationRecorder interface {
	RecordAutomationOperation(ctx context.Context, service, operation, status string, duration time.Duration)
}

// Client provides access to the Reminders app through AppleScript
type Client struct {
	runner   osascript.Runner
	logger   *slog.Logger
	recorder OperationRecorder
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithClientLogger sets the logger used for debug output
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets where operation metrics are reported
func WithRecorder(recorder OperationRecorder) ClientOption {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// NewClient creates a Reminders client that executes scripts with runner
func NewClient(runner osascript.Runner, opts ...ClientOption) *Client {
	c := &Client{
		runner: runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run executes one script and turns a failed invocation into an *AutomationError.
// attrs are added to the debug log line; they must not carry reminder text.
func (c *Client) run(ctx context.Context, op, script string, attrs ...slog.Attr) (string, error) {
	ctx, span := instrumentation.StartAutomationSpan(ctx, instrumentation.ServiceReminders, op)
	defer span.End()

	start := time.Now()
	result, err := c.runner.Run(ctx, script)
	duration := time.Since(start)

	if err == nil && !result.Success() {
		err = &AutomationError{Op: op, Detail: result.Stderr, ExitCode: result.ExitCode}
	} else if err != nil {
		err = &AutomationError{Op: op, ExitCode: -1, Err: err}
	}

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.recorder != nil {
		c.recorder.RecordAutomationOperation(ctx, instrumentation.ServiceReminders, op, status, duration)
	}

	attrs = append(attrs,
		logging.Service(instrumentation.ServiceReminders),
		logging.Operation(op),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.Err(err))
	c.logger.LogAttrs(ctx, slog.LevelDebug, "reminders operation", attrs...)

	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// ListLists returns the names of all Reminders lists in enumeration order
func (c *Client) ListLists(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, OpListLists, listListsScript())
	if err != nil {
		return nil, err
	}
	return parseListNames(out), nil
}

// ListReminders returns reminders from one list or all lists.
// Completed reminders are omitted unless opts.IncludeCompleted is set.
func (c *Client) ListReminders(ctx context.Context, opts ListOptions) ([]Reminder, error) {
	out, err := c.run(ctx, OpListReminders, listRemindersScript(opts), logging.List(deref(opts.ListName)))
	if err != nil {
		return nil, err
	}

	reminders, skipped := parseReminders(out)
	if skipped > 0 {
		c.logger.Debug("skipped malformed reminder lines", logging.Operation(OpListReminders), "count", skipped)
	}
	return reminders, nil
}

// CreateReminder creates a reminder and returns the name the app stored.
// Without a list name the reminder goes to the app's default list.
func (c *Client) CreateReminder(ctx context.Context, name string, in CreateInput) (string, error) {
	return c.run(ctx, OpCreateReminder, createReminderScript(name, in),
		logging.ReminderHash(name),
		logging.List(deref(in.ListName)),
		slog.String("notes", logging.SanitizeText(deref(in.Notes))))
}

// CompleteReminder marks the first reminder named name as completed
func (c *Client) CompleteReminder(ctx context.Context, name string, listName *string) (Result, error) {
	out, err := c.run(ctx, OpComplete, completeReminderScript(name, listName),
		logging.ReminderHash(name), logging.List(deref(listName)))
	if err != nil {
		return NotFound, err
	}
	return parseResult(out), nil
}

// UpdateReminder applies the non-nil fields of in to the first reminder named name.
// An update without changes succeeds without contacting the app.
func (c *Client) UpdateReminder(ctx context.Context, name string, in UpdateInput) (Result, error) {
	if !in.HasChanges() {
		return Found, nil
	}

	out, err := c.run(ctx, OpUpdate, updateReminderScript(name, in),
		logging.ReminderHash(name), logging.List(deref(in.ListName)))
	if err != nil {
		return NotFound, err
	}
	return parseResult(out), nil
}

// DeleteReminder deletes the first reminder named name
func (c *Client) DeleteReminder(ctx context.Context, name string, listName *string) (Result, error) {
	out, err := c.run(ctx, OpDelete, deleteReminderScript(name, listName),
		logging.ReminderHash(name), logging.List(deref(listName)))
	if err != nil {
		return NotFound, err
	}
	return parseResult(out), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
