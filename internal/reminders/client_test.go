package reminders

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/reminders-mcp/internal/osascript"
)

// fakeRunner returns canned results and records every script it receives
type fakeRunner struct {
	mu      sync.Mutex
	result  osascript.ScriptResult
	err     error
	scripts []string
}

func (f *fakeRunner) Run(_ context.Context, script string) (osascript.ScriptResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, script)
	return f.result, f.err
}

func (f *fakeRunner) lastScript(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.scripts, "no script was run")
	return f.scripts[len(f.scripts)-1]
}

func stdout(s string) *fakeRunner {
	return &fakeRunner{result: osascript.ScriptResult{Stdout: s}}
}

type recordedOp struct {
	service, operation, status string
}

type fakeRecorder struct {
	ops []recordedOp
}

func (r *fakeRecorder) RecordAutomationOperation(_ context.Context, service, operation, status string, _ time.Duration) {
	r.ops = append(r.ops, recordedOp{service, operation, status})
}

func TestClient_ListLists(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{"several lists", "Work, Personal, Groceries", []string{"Work", "Personal", "Groceries"}},
		{"single list", "Reminders", []string{"Reminders"}},
		{"no lists", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(stdout(tt.output))
			lists, err := c.ListLists(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, lists)
		})
	}
}

func TestClient_ListReminders(t *testing.T) {
	t.Run("single reminder", func(t *testing.T) {
		c := NewClient(stdout("Work|Buy coffee|false|missing value\n"))

		got, err := c.ListReminders(context.Background(), ListOptions{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, Reminder{List: "Work", Name: "Buy coffee", Completed: false}, got[0])
	})

	t.Run("order is preserved", func(t *testing.T) {
		c := NewClient(stdout("Work|Task A|false|missing value\nWork|Task B|true|missing value\n"))

		got, err := c.ListReminders(context.Background(), ListOptions{IncludeCompleted: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Task A", got[0].Name)
		assert.False(t, got[0].Completed)
		assert.Equal(t, "Task B", got[1].Name)
		assert.True(t, got[1].Completed)
	})

	t.Run("empty output", func(t *testing.T) {
		c := NewClient(stdout(""))

		got, err := c.ListReminders(context.Background(), ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("scope and filter reach the script", func(t *testing.T) {
		runner := stdout("")
		c := NewClient(runner)

		_, err := c.ListReminders(context.Background(), ListOptions{ListName: String("Groceries")})
		require.NoError(t, err)
		script := runner.lastScript(t)
		assert.Contains(t, script, `{list "Groceries"}`)
		assert.Contains(t, script, "whose completed is false")

		_, err = c.ListReminders(context.Background(), ListOptions{IncludeCompleted: true})
		require.NoError(t, err)
		script = runner.lastScript(t)
		assert.Contains(t, script, "set theLists to lists")
		assert.NotContains(t, script, "whose completed is false")
	})
}

func TestClient_CreateReminder(t *testing.T) {
	t.Run("default list", func(t *testing.T) {
		runner := stdout("Buy milk")
		c := NewClient(runner)

		name, err := c.CreateReminder(context.Background(), "Buy milk", CreateInput{})
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", name)

		script := runner.lastScript(t)
		assert.Contains(t, script, "at end of default list")
		assert.Contains(t, script, `name:"Buy milk"`)
		assert.NotContains(t, script, "due date")
		assert.NotContains(t, script, "body:")
	})

	t.Run("all fields", func(t *testing.T) {
		runner := stdout("Call mom")
		c := NewClient(runner)

		_, err := c.CreateReminder(context.Background(), "Call mom", CreateInput{
			ListName: String("Personal"),
			DueDate:  String("March 1, 2026 at 9:00 AM"),
			Notes:    String("Ask about the trip"),
		})
		require.NoError(t, err)

		script := runner.lastScript(t)
		assert.Contains(t, script, `at end of list "Personal"`)
		assert.Contains(t, script, `due date:date "March 1, 2026 at 9:00 AM"`)
		assert.Contains(t, script, `body:"Ask about the trip"`)
	})
}

func TestClient_MutatingOperations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		output string
		call   func(c *Client) (Result, error)
		want   Result
	}{
		{
			name:   "complete found",
			output: "ok",
			call:   func(c *Client) (Result, error) { return c.CompleteReminder(ctx, "Buy milk", nil) },
			want:   Found,
		},
		{
			name:   "complete not found",
			output: "not found",
			call:   func(c *Client) (Result, error) { return c.CompleteReminder(ctx, "Nope", String("Work")) },
			want:   NotFound,
		},
		{
			name:   "update found",
			output: "ok",
			call: func(c *Client) (Result, error) {
				return c.UpdateReminder(ctx, "Buy milk", UpdateInput{NewName: String("Buy oat milk")})
			},
			want: Found,
		},
		{
			name:   "update not found",
			output: "not found",
			call: func(c *Client) (Result, error) {
				return c.UpdateReminder(ctx, "Nope", UpdateInput{Notes: String("x")})
			},
			want: NotFound,
		},
		{
			name:   "delete found",
			output: "ok",
			call:   func(c *Client) (Result, error) { return c.DeleteReminder(ctx, "Buy milk", String("Groceries")) },
			want:   Found,
		},
		{
			name:   "delete not found",
			output: "not found",
			call:   func(c *Client) (Result, error) { return c.DeleteReminder(ctx, "X", nil) },
			want:   NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(stdout(tt.output))
			got, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Found, got.Found())
		})
	}
}

func TestClient_UpdateWithoutChanges(t *testing.T) {
	runner := stdout("not found")
	c := NewClient(runner)

	got, err := c.UpdateReminder(context.Background(), "Anything", UpdateInput{ListName: String("Work")})
	require.NoError(t, err)
	assert.True(t, got.Found())
	assert.Empty(t, runner.scripts, "no script should run for an empty update")
}

func TestClient_AutomationErrors(t *testing.T) {
	ctx := context.Background()

	calls := map[string]func(c *Client) error{
		OpListLists: func(c *Client) error { _, err := c.ListLists(ctx); return err },
		OpListReminders: func(c *Client) error {
			_, err := c.ListReminders(ctx, ListOptions{ListName: String("Nope")})
			return err
		},
		OpCreateReminder: func(c *Client) error { _, err := c.CreateReminder(ctx, "x", CreateInput{}); return err },
		OpComplete:       func(c *Client) error { _, err := c.CompleteReminder(ctx, "x", nil); return err },
		OpUpdate: func(c *Client) error {
			_, err := c.UpdateReminder(ctx, "x", UpdateInput{NewName: String("y")})
			return err
		},
		OpDelete: func(c *Client) error { _, err := c.DeleteReminder(ctx, "x", nil); return err },
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			runner := &fakeRunner{result: osascript.ScriptResult{Stderr: "List not found", ExitCode: 1}}
			err := call(NewClient(runner))
			require.Error(t, err)

			var autoErr *AutomationError
			require.True(t, errors.As(err, &autoErr))
			assert.Equal(t, op, autoErr.Op)
			assert.Equal(t, 1, autoErr.ExitCode)
			assert.Contains(t, err.Error(), "List not found")
		})
	}
}

func TestClient_RunnerFailure(t *testing.T) {
	runner := &fakeRunner{
		result: osascript.ScriptResult{ExitCode: -1},
		err:    context.DeadlineExceeded,
	}
	c := NewClient(runner)

	_, err := c.ListLists(context.Background())
	require.Error(t, err)

	var autoErr *AutomationError
	require.True(t, errors.As(err, &autoErr))
	assert.Equal(t, -1, autoErr.ExitCode)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_RecordsOperations(t *testing.T) {
	recorder := &fakeRecorder{}
	runner := stdout("Work")
	c := NewClient(runner, WithRecorder(recorder))

	_, err := c.ListLists(context.Background())
	require.NoError(t, err)

	runner.result = osascript.ScriptResult{Stderr: "boom", ExitCode: 1}
	_, err = c.DeleteReminder(context.Background(), "x", nil)
	require.Error(t, err)

	assert.Equal(t, []recordedOp{
		{"reminders", OpListLists, "success"},
		{"reminders", OpDelete, "error"},
	}, recorder.ops)
}

func TestAutomationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AutomationError
		want string
	}{
		{
			name: "with detail",
			err:  &AutomationError{Op: OpListLists, Detail: "execution error: Not authorized", ExitCode: 1},
			want: "reminders list_lists: AppleScript error: execution error: Not authorized",
		},
		{
			name: "without detail",
			err:  &AutomationError{Op: OpDelete, ExitCode: 2},
			want: "reminders delete_reminder: AppleScript error: exit status 2",
		},
		{
			name: "wrapped error",
			err:  &AutomationError{Op: OpComplete, ExitCode: -1, Err: errors.New("exec: not found")},
			want: "reminders complete_reminder: AppleScript error: exec: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClient_DebugLogOmitsReminderText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := NewClient(stdout("Buy milk"), WithClientLogger(logger))
	_, err := client.CreateReminder(context.Background(), "Buy milk", CreateInput{
		ListName: String("Groceries"),
		Notes:    String("two litres"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"operation":"create_reminder"`)
	assert.Contains(t, out, `"status":"success"`)
	assert.Contains(t, out, `"list":"Groceries"`)
	assert.Contains(t, out, `"reminder_hash":"reminder:`)
	assert.Contains(t, out, `"notes":"[text:10 chars]"`)
	assert.NotContains(t, out, "Buy milk")
	assert.NotContains(t, out, "two litres")
}
