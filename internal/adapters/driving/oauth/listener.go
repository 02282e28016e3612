package oauth

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

// loopbackHost is the only interface the callback listener binds to.
const loopbackHost = "127.0.0.1"

// ListenerManager owns at most one loopback TCP listener.
// Acquire, Release and accept may be called from different goroutines;
// Release is safe while an accept is in flight and makes it fail with net.ErrClosed.
type ListenerManager struct {
	mu       sync.Mutex
	listener *net.TCPListener
	port     int
}

// NewListenerManager creates a manager with nothing bound.
func NewListenerManager() *ListenerManager {
	return &ListenerManager{}
}

// Acquire binds the first free port from candidates, in order.
// Any previously held listener is released first.
// Returns *domain.BindError wrapping domain.ErrNoPortAvailable when every candidate fails.
func (m *ListenerManager) Acquire(candidates []int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	if len(candidates) == 0 {
		return 0, &domain.BindError{Err: fmt.Errorf("%w: empty port pool", domain.ErrNoPortAvailable)}
	}

	for _, port := range candidates {
		addr := fmt.Sprintf("%s:%d", loopbackHost, port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Debug("cannot bind %s: %v", addr, err)
			continue
		}
		tcp, ok := ln.(*net.TCPListener)
		if !ok {
			_ = ln.Close()
			continue
		}
		m.listener = tcp
		m.port = tcp.Addr().(*net.TCPAddr).Port
		logger.Debug("callback listener bound on %s", tcp.Addr())
		return m.port, nil
	}

	ports := make([]int, len(candidates))
	copy(ports, candidates)
	return 0, &domain.BindError{Ports: ports, Err: domain.ErrNoPortAvailable}
}

// Release closes the listener. Calling it with nothing bound is a no-op.
func (m *ListenerManager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseLocked()
}

func (m *ListenerManager) releaseLocked() error {
	if m.listener == nil {
		return nil
	}
	err := m.listener.Close()
	logger.Debug("callback listener on port %d released", m.port)
	m.listener = nil
	m.port = 0
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Port returns the bound port, or 0 when nothing is bound.
func (m *ListenerManager) Port() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.port
}

// Bound reports whether a listener is currently held.
func (m *ListenerManager) Bound() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener != nil
}

// accept waits at most wait for one connection.
// The lock is only held to read the handle, never across the blocking accept.
func (m *ListenerManager) accept(wait time.Duration) (net.Conn, error) {
	m.mu.Lock()
	ln := m.listener
	m.mu.Unlock()

	if ln == nil {
		return nil, domain.ErrNotBound
	}
	if err := ln.SetDeadline(time.Now().Add(wait)); err != nil {
		return nil, err
	}
	return ln.Accept()
}
