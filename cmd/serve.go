package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/reminders-mcp/internal/config"
	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/osascript"
	"github.com/teemow/reminders-mcp/internal/reminders"
	"github.com/teemow/reminders-mcp/internal/server"
	"github.com/teemow/reminders-mcp/internal/tools/reminders_tools"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to provide Reminders tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp, with /healthz,
    /readyz and /healthz/detailed checks

Settings are read from built-in defaults, the optional --config file,
environment variables and finally the flags given on the command line.

Metrics:
  With the streamable-http transport a Prometheus endpoint is served on a
  dedicated port (default :9090). Use --metrics-enabled=false to turn it off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("transport", config.TransportStdio, "Transport type: stdio or streamable-http. Can also use REMINDERS_TRANSPORT env var.")
	cmd.Flags().String("http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use REMINDERS_HTTP_ADDR env var.")
	cmd.Flags().Bool("disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().Bool("read-only", false, "Refuse the tools that create, change or delete reminders. Can also use REMINDERS_READ_ONLY env var.")
	cmd.Flags().Bool("metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().String("metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	var cleanup cleanupStack
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cleanup.run(ctx); err != nil {
			logger.Error("Error during shutdown", logging.Err(err))
		}
	}()

	// Initialize instrumentation provider
	instrConfig := cfg.Instrumentation(version)
	if cfg.Transport == config.TransportStdio {
		instrConfig.ConsoleWriter = os.Stderr
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	cleanup.push(provider.Shutdown)

	// Start metrics server if enabled and not in stdio mode
	if cfg.Transport != config.TransportStdio && cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err := startMetricsServer(cfg.Metrics.Addr, provider, logger)
		if err != nil {
			return err
		}
		cleanup.push(metricsServer.Shutdown)
	}

	runner, err := newRunner(cfg, logger)
	if err != nil {
		return err
	}
	if execRunner, ok := runner.(*osascript.ExecRunner); ok {
		logger.Debug("AppleScript runner configured",
			"command", execRunner.Command(),
			"timeout", execRunner.Timeout())
		if err := execRunner.CheckAvailable(); err != nil {
			logger.Warn("AppleScript runner unavailable, tool calls will fail", logging.Err(err))
		}
	}

	clientOpts := []reminders.ClientOption{reminders.WithClientLogger(logger)}
	if provider.Enabled() {
		clientOpts = append(clientOpts, reminders.WithRecorder(provider.Metrics()))
	}
	client := reminders.NewClient(runner, clientOpts...)

	serverContext, err := server.NewServerContext(shutdownCtx, client, cfg.ReadOnly)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	cleanup.push(func(context.Context) error { return serverContext.Shutdown() })

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, cfg.AuditLogging()))
	}

	serverOpts := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	}

	var sessions *server.SessionManager
	if cfg.Transport == config.TransportStreamableHTTP {
		sessions = server.NewSessionManager(serverContext, logger)
		defer func() {
			logger.Info("Stopping session manager", "active_sessions", sessions.Count())
			logger.Debug("Open sessions at shutdown", "session_ids", sessions.ListSessions())
			sessions.Stop()
		}()
		serverOpts = append(serverOpts, mcpserver.WithHooks(sessions.Hooks()))
	}

	mcpSrv := mcpserver.NewMCPServer("reminders-mcp", version, serverOpts...)

	if cfg.ReadOnly {
		logger.Info("Starting server in READ-ONLY mode, write tools will refuse to run")
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(shutdownCtx, mcpSrv, logger)
	case config.TransportStreamableHTTP:
		health := server.NewHealthChecker(serverContext)
		if execRunner, ok := runner.(*osascript.ExecRunner); ok {
			health.AddCheck("osascript", execRunner.CheckAvailable)
		}
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, health, cfg, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// cleanupStack runs shutdown steps in reverse order of registration, so a
// failed startup releases whatever was already running.
type cleanupStack []func(context.Context) error

func (c *cleanupStack) push(fn func(context.Context) error) {
	*c = append(*c, fn)
}

func (c cleanupStack) run(ctx context.Context) error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i](ctx))
	}
	return errors.Join(errs...)
}

// startMetricsServer starts the Prometheus endpoint and waits until it is
// listening.
func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	// Wait for metrics server to be ready or fail
	select {
	case <-metricsReady:
		logger.Info("Metrics server started", "addr", metricsServer.ListenAddr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := reminders_tools.RegisterRemindersTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register Reminders tools: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, health *server.HealthChecker, cfg config.Config, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, health, server.HTTPServerConfig{
		Addr:             cfg.HTTPAddr,
		DisableStreaming: cfg.DisableStreaming,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(nil); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
