package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/reminders-mcp/internal/config"
	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/osascript"
	"github.com/teemow/reminders-mcp/internal/reminders"
)

// lookupEnv is swapped in tests
var lookupEnv func(string) (string, bool)

// newRunner builds the script runner for a resolved config; swapped in tests
var newRunner = func(cfg config.Config, logger *slog.Logger) (osascript.Runner, error) {
	timeout, err := cfg.InvocationTimeout()
	if err != nil {
		return nil, err
	}
	return osascript.NewExecRunner(
		osascript.WithCommand(cfg.Osascript),
		osascript.WithTimeout(timeout),
		osascript.WithLogger(logger),
	), nil
}

// loadConfig resolves the configuration in layers: defaults, the --config
// file, environment variables, then flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return cfg, err
	}

	stringFlags := map[string]*string{
		"osascript":    &cfg.Osascript,
		"timeout":      &cfg.Timeout,
		"log-level":    &cfg.LogLevel,
		"log-format":   &cfg.LogFormat,
		"transport":    &cfg.Transport,
		"http-addr":    &cfg.HTTPAddr,
		"metrics-addr": &cfg.Metrics.Addr,
	}
	for name, field := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		*field, _ = flags.GetString(name)
	}

	boolFlags := map[string]*bool{
		"read-only":         &cfg.ReadOnly,
		"disable-streaming": &cfg.DisableStreaming,
		"metrics-enabled":   &cfg.Metrics.Enabled,
	}
	for name, field := range boolFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		*field, _ = flags.GetBool(name)
	}

	// --debug is shorthand for --log-level=debug
	if flags.Lookup("debug") != nil {
		if debug, _ := flags.GetBool("debug"); debug {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates the process logger. Logs always go to w (stderr in
// practice) because the stdio transport owns stdout.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(w, level, cfg.LogFormat)
}

// newClient builds a Reminders client for the CLI inspection commands
func newClient(cmd *cobra.Command) (*reminders.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	runner, err := newRunner(cfg, logger)
	if err != nil {
		return nil, err
	}
	return reminders.NewClient(runner, reminders.WithClientLogger(logger)), nil
}
