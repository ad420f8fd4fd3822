package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/reminders"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *reminders.Client
	readOnly    bool
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context around a Reminders client
func NewServerContext(ctx context.Context, client *reminders.Client, readOnly bool) (*ServerContext, error) {
	if client == nil {
		return nil, fmt.Errorf("reminders client is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		client:   client,
		readOnly: readOnly,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// RemindersClient returns the shared Reminders client
func (sc *ServerContext) RemindersClient() *reminders.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// ReadOnly reports whether mutating tools are disabled
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// Metrics returns the metrics recorder, or nil when instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
