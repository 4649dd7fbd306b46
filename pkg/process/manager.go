// Package process handles signals and shutdown for long-running commands
package process

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/modkeeper/modkeeper/pkg/logger"
)

// DefaultHeartbeatInterval is used when SetHeartbeat gets a non-positive interval
const DefaultHeartbeatInterval = 5 * time.Minute

// Manager handles process lifecycle and signals
type Manager struct {
	logger            logger.Logger
	shutdownHandlers  []func()
	heartbeatFunc     func()
	heartbeatInterval time.Duration
	heartbeatStop     chan struct{}
	signals           []os.Signal
	done              chan struct{}
	wg                sync.WaitGroup
	mu                sync.Mutex
	running           bool
}

// NewManager creates a new process manager
func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		logger:           log,
		shutdownHandlers: make([]func(), 0),
		signals:          []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP},
		done:             make(chan struct{}),
	}
}

// RegisterShutdownHandler adds a shutdown handler. Handlers run in reverse
// registration order.
func (m *Manager) RegisterShutdownHandler(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shutdownHandlers = append(m.shutdownHandlers, handler)
}

// SetHeartbeat sets a function run every interval while the manager runs
func (m *Manager) SetHeartbeat(interval time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	m.heartbeatInterval = interval
	m.heartbeatFunc = fn
}

// Start starts the process manager. It shuts down when ctx is cancelled or
// a termination signal arrives.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	heartbeat := m.heartbeatFunc
	m.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, m.signals...)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer signal.Stop(sigChan)

		select {
		case <-ctx.Done():
			m.handleShutdown()
		case sig := <-sigChan:
			m.logger.Info("Received signal", logger.WithField("signal", sig.String()))
			m.handleShutdown()
		}
	}()

	if heartbeat != nil {
		m.startHeartbeat(ctx)
	}
}

// Done is closed once shutdown handlers have run
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until shutdown has completed
func (m *Manager) Wait() {
	<-m.done
	m.wg.Wait()
}

// IsRunning checks if the process manager is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Private methods

func (m *Manager) handleShutdown() {
	m.logger.Info("Initiating graceful shutdown...")

	m.mu.Lock()
	handlers := make([]func(), len(m.shutdownHandlers))
	copy(handlers, m.shutdownHandlers)
	m.running = false
	if m.heartbeatStop != nil {
		close(m.heartbeatStop)
		m.heartbeatStop = nil
	}
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
	close(m.done)
}

func (m *Manager) startHeartbeat(ctx context.Context) {
	m.mu.Lock()
	stop := make(chan struct{})
	m.heartbeatStop = stop
	interval := m.heartbeatInterval
	fn := m.heartbeatFunc
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}
