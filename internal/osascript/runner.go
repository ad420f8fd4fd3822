package osascript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultCommand is the executable used to run AppleScript.
	DefaultCommand = "osascript"

	// DefaultTimeout bounds a single script invocation.
	DefaultTimeout = 30 * time.Second
)

// ScriptResult is the raw outcome of one osascript invocation
type ScriptResult struct {
	// Stdout is the trimmed standard output of the script
	Stdout string

	// Stderr is the trimmed standard error of the script
	Stderr string

	// ExitCode is the process exit status (0 on success)
	ExitCode int
}

// Success reports whether the script exited with status 0
func (r ScriptResult) Success() bool {
	return r.ExitCode == 0
}

// Runner executes AppleScript source and reports its outcome.
type Runner interface {
	Run(ctx context.Context, script string) (ScriptResult, error)
}

// ExecRunner runs scripts by spawning the osascript executable
type ExecRunner struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an ExecRunner
type Option func(*ExecRunner)

// WithCommand overrides the executable (default: osascript)
func WithCommand(command string) Option {
	return func(r *ExecRunner) {
		if command != "" {
			r.command = command
		}
	}
}

// WithTimeout sets the per-invocation timeout. Zero or negative disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) Option {
	return func(r *ExecRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewExecRunner creates a runner for the osascript executable
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command returns the executable this runner spawns
func (r *ExecRunner) Command() string {
	return r.command
}

// Timeout returns the per-invocation timeout
func (r *ExecRunner) Timeout() time.Duration {
	return r.timeout
}

// CheckAvailable verifies that the executable can be found in PATH
func (r *ExecRunner) CheckAvailable() error {
	if _, err := exec.LookPath(r.command); err != nil {
		return fmt.Errorf("%s not found in PATH (macOS is required to reach the Reminders app): %w", r.command, err)
	}
	return nil
}

// Run executes the script and waits for the process to exit
func (r *ExecRunner) Run(ctx context.Context, script string) (ScriptResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.command, "-e", script)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := ScriptResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	// A killed process also surfaces as an ExitError, so check the context first
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s interrupted after %s: %w", r.command, duration.Truncate(time.Millisecond), ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug("script exited with non-zero status",
				"command", r.command,
				"exit_code", result.ExitCode,
				"duration", duration)
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("failed to run %s: %w", r.command, err)
	}

	r.logger.Debug("script completed",
		"command", r.command,
		"duration", duration)

	return result, nil
}
