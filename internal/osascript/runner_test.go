//go:build !windows

package osascript

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOsascript writes a shell script that mimics `osascript -e <script>` by
// running the script argument through sh instead.
func fakeOsascript(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "osascript")
	content := "#!/bin/sh\nif [ \"$1\" != \"-e\" ]; then\n  echo \"unexpected flag $1\" >&2\n  exit 64\nfi\nexec /bin/sh -c \"$2\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestNewExecRunner_Defaults(t *testing.T) {
	r := NewExecRunner()
	assert.Equal(t, DefaultCommand, r.Command())
	assert.Equal(t, DefaultTimeout, r.Timeout())
}

func TestNewExecRunner_Options(t *testing.T) {
	r := NewExecRunner(
		WithCommand("/usr/local/bin/osascript"),
		WithTimeout(5*time.Second),
		WithLogger(nil),
	)
	assert.Equal(t, "/usr/local/bin/osascript", r.Command())
	assert.Equal(t, 5*time.Second, r.Timeout())
	assert.NotNil(t, r.logger)

	// An empty command keeps the default
	r = NewExecRunner(WithCommand(""))
	assert.Equal(t, DefaultCommand, r.Command())
}

func TestExecRunner_Run(t *testing.T) {
	cmd := fakeOsascript(t)

	tests := []struct {
		name         string
		script       string
		wantStdout   string
		wantStderr   string
		wantExitCode int
	}{
		{
			name:       "stdout is trimmed",
			script:     "printf '  Work, Personal \\n\\n'",
			wantStdout: "Work, Personal",
		},
		{
			name:         "non-zero exit reports stderr",
			script:       "echo 'List not found' >&2; exit 1",
			wantStderr:   "List not found",
			wantExitCode: 1,
		},
		{
			name:       "empty output",
			script:     "true",
			wantStdout: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewExecRunner(WithCommand(cmd), WithTimeout(10*time.Second))

			result, err := r.Run(context.Background(), tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStdout, result.Stdout)
			assert.Equal(t, tt.wantStderr, result.Stderr)
			assert.Equal(t, tt.wantExitCode, result.ExitCode)
			assert.Equal(t, tt.wantExitCode == 0, result.Success())
		})
	}
}

func TestExecRunner_RunTimeout(t *testing.T) {
	r := NewExecRunner(WithCommand(fakeOsascript(t)), WithTimeout(100*time.Millisecond))

	result, err := r.Run(context.Background(), "exec sleep 5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline exceeded, got %v", err)
	assert.Equal(t, -1, result.ExitCode)
}

func TestExecRunner_RunCancelledContext(t *testing.T) {
	r := NewExecRunner(WithCommand(fakeOsascript(t)), WithTimeout(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "echo never")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "expected context canceled, got %v", err)
}

func TestExecRunner_MissingCommand(t *testing.T) {
	r := NewExecRunner(WithCommand(filepath.Join(t.TempDir(), "no-such-osascript")))

	result, err := r.Run(context.Background(), "return 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
	assert.Equal(t, -1, result.ExitCode)

	assert.Error(t, r.CheckAvailable())
}

func TestExecRunner_CheckAvailable(t *testing.T) {
	r := NewExecRunner(WithCommand(fakeOsascript(t)))
	assert.NoError(t, r.CheckAvailable())
}
