package server

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
)

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	registeredAt time.Time
	lastAccess   time.Time
}

// SessionManager tracks MCP client sessions on the HTTP transport and keeps
// the active session gauge in step with them. Sessions that stop sending
// requests are forgotten after the idle timeout.
type SessionManager struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
	serverContext  *ServerContext
	logger         *slog.Logger
}

// DefaultSessionTimeout is how long an idle session is remembered.
const DefaultSessionTimeout = 24 * time.Hour

// NewSessionManager creates a session manager with the default timeout
func NewSessionManager(sc *ServerContext, logger *slog.Logger) *SessionManager {
	return NewSessionManagerWithTimeout(sc, DefaultSessionTimeout, 10*time.Minute, logger)
}

// NewSessionManagerWithTimeout creates a session manager with a custom idle
// timeout and cleanup interval
func NewSessionManagerWithTimeout(sc *ServerContext, timeout, cleanupInterval time.Duration, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &SessionManager{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(cleanupInterval),
		cleanupDone:    make(chan struct{}),
		sessionTimeout: timeout,
		serverContext:  sc,
		logger:         logger,
	}

	go m.cleanupExpiredSessions()

	return m
}

// Hooks returns mcp-go server hooks that feed session lifecycle events and
// request activity into the manager.
func (m *SessionManager) Hooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		m.Register(ctx, session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		m.Unregister(ctx, session.SessionID())
	})
	hooks.AddBeforeAny(func(ctx context.Context, _ any, _ mcp.MCPMethod, _ any) {
		if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
			m.Touch(session.SessionID())
		}
	})
	return hooks
}

// Register records a new session
func (m *SessionManager) Register(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}

	m.mu.Lock()
	_, exists := m.sessions[sessionID]
	now := time.Now()
	if !exists {
		m.sessions[sessionID] = &sessionInfo{registeredAt: now, lastAccess: now}
	}
	m.mu.Unlock()

	if exists {
		return
	}
	if metrics := m.metrics(); metrics != nil {
		metrics.IncrementActiveSessions(ctx)
	}
	m.logger.Debug("session registered", "session_id", sessionID)
}

// Unregister removes a session
func (m *SessionManager) Unregister(ctx context.Context, sessionID string) {
	m.mu.Lock()
	_, exists := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !exists {
		return
	}
	if metrics := m.metrics(); metrics != nil {
		metrics.DecrementActiveSessions(ctx)
	}
	m.logger.Debug("session unregistered", "session_id", sessionID)
}

// Touch updates the last access time of a known session
func (m *SessionManager) Touch(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
	}
}

// Count returns the number of tracked sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ListSessions returns all active session IDs, sorted
func (m *SessionManager) ListSessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]string, 0, len(m.sessions))
	for sessionID := range m.sessions {
		sessions = append(sessions, sessionID)
	}
	sort.Strings(sessions)
	return sessions
}

func (m *SessionManager) metrics() *instrumentation.Metrics {
	if m.serverContext == nil {
		return nil
	}
	return m.serverContext.Metrics()
}

// expireIdle removes sessions idle for longer than the timeout and returns
// how many were removed.
func (m *SessionManager) expireIdle(now time.Time) int {
	m.mu.Lock()
	var expired []string
	for sessionID, info := range m.sessions {
		if now.Sub(info.lastAccess) > m.sessionTimeout {
			expired = append(expired, sessionID)
		}
	}
	m.mu.Unlock()

	ctx := context.Background()
	if m.serverContext != nil {
		ctx = m.serverContext.Context()
	}
	for _, sessionID := range expired {
		m.Unregister(ctx, sessionID)
	}
	return len(expired)
}

// cleanupExpiredSessions periodically removes expired sessions
func (m *SessionManager) cleanupExpiredSessions() {
	for {
		select {
		case now := <-m.cleanupTicker.C:
			if n := m.expireIdle(now); n > 0 {
				m.logger.Info("Cleaned up expired sessions", "count", n)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() {
		m.cleanupTicker.Stop()
		close(m.cleanupDone)
	})
}
