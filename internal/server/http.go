package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/reminders-mcp/internal/logging"
)

const (
	// DefaultMCPEndpoint is the path the streamable HTTP transport is served on.
	DefaultMCPEndpoint = "/mcp"

	// The write timeout must outlast the osascript timeout.
	defaultHTTPReadHeaderTimeout = 10 * time.Second
	defaultHTTPWriteTimeout      = 2 * time.Minute
	defaultHTTPIdleTimeout       = 120 * time.Second
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the listen address (e.g. ":8080")
	Addr string

	// DisableStreaming makes the MCP endpoint answer with plain JSON only
	DisableStreaming bool

	// Logger receives transport and request logs; defaults to slog.Default()
	Logger *slog.Logger
}

// HTTPServer serves the MCP streamable HTTP transport next to the health
// endpoints. Request counts and latencies are recorded when the server
// context carries metrics.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	health        *HealthChecker
	config        HTTPServerConfig
	logger        *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr string
}

// NewHTTPServer creates the HTTP transport for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, health *HealthChecker, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("http address is required")
	}
	if health == nil {
		health = NewHealthChecker(sc)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPServer{
		mcpServer:     mcpServer,
		serverContext: sc,
		health:        health,
		config:        config,
		logger:        logger,
	}, nil
}

// Handler builds the HTTP handler tree: the MCP endpoint plus health checks,
// wrapped in request metrics.
func (s *HTTPServer) Handler() http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(DefaultMCPEndpoint),
		mcpserver.WithDisableStreaming(s.config.DisableStreaming),
		mcpserver.WithLogger(logging.NewSlogAdapter(s.logger)),
	)

	mux := http.NewServeMux()
	mux.Handle(DefaultMCPEndpoint, streamable)
	s.health.RegisterHealthEndpoints(mux)

	return s.metricsMiddleware(mux)
}

// Start listens on the configured address and serves until Shutdown.
// ready, when non-nil, is closed once the listener is bound.
func (s *HTTPServer) Start(ready chan<- struct{}) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultHTTPReadHeaderTimeout,
		WriteTimeout:      defaultHTTPWriteTimeout,
		IdleTimeout:       defaultHTTPIdleTimeout,
	}
	s.listenAddr = listener.Addr().String()
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("starting streamable HTTP server",
		"addr", s.listenAddr,
		"endpoint", DefaultMCPEndpoint,
		"streaming", !s.config.DisableStreaming)
	if ready != nil {
		close(ready)
	}
	return srv.Serve(listener)
}

// ListenAddr returns the bound address once Start has been called.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")
	return srv.Shutdown(ctx)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if s.serverContext == nil {
			return
		}
		if metrics := s.serverContext.Metrics(); metrics != nil {
			metrics.RecordHTTPRequest(r.Context(), r.Method, metricsPath(r.URL.Path), rec.status, time.Since(start))
		}
	})
}

// metricsPath collapses unknown paths to keep label cardinality bounded.
func metricsPath(path string) string {
	switch path {
	case DefaultMCPEndpoint, "/healthz", "/readyz", "/healthz/detailed":
		return path
	default:
		return "other"
	}
}
