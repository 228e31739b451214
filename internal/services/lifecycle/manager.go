// Package lifecycle owns orderly startup teardown: components register a
// stop function as they come up and are stopped in reverse order on exit.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc stops one component. It must respect ctx cancellation.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	stop ShutdownFunc
}

// Manager collects shutdown hooks and runs them once, last-registered first,
// under a single deadline.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	once  sync.Once
	hooks []hook
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a named shutdown hook. Registration order matters: hooks run
// in reverse, so dependents should register after their dependencies.
func (m *Manager) Register(name string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.hooks = append(m.hooks, hook{name: name, stop: stop})
	m.mu.Unlock()
}

// Listen arranges for cancel to fire on SIGINT or SIGTERM.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(signals)
		received := <-signals
		m.logger.Info("shutdown signal received", zap.String("signal", received.String()))
		cancel()
	}()
}

// Shutdown runs every hook in reverse registration order. All hooks share
// the manager's deadline; a failing hook is logged and does not block the
// rest. Repeat calls are no-ops.
func (m *Manager) Shutdown(ctx context.Context) error {
	var result error
	m.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		m.mu.Lock()
		hooks := m.hooks
		m.hooks = nil
		m.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			h := hooks[i]
			began := time.Now()
			if err := h.stop(ctx); err != nil {
				m.logger.Error("shutdown hook failed",
					zap.String("component", h.name),
					zap.Error(err))
				result = errors.Join(result, err)
				continue
			}
			m.logger.Info("component stopped",
				zap.String("component", h.name),
				zap.Duration("took", time.Since(began)))
		}
	})
	return result
}
