// Package monitor probes the backing stores on a fixed cadence. The buffer
// processor consults it before draining, and the health endpoint reports its
// last snapshot.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/slotwise/backend/internal/infrastructure/buffer"
)

const probeTimeout = 3 * time.Second

// Monitor keeps a periodically refreshed connectivity snapshot.
type Monitor struct {
	pg     *pgxpool.Pool
	redis  *redislib.Client
	buffer *buffer.Store

	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}

	mu       sync.RWMutex
	snapshot Status
}

func New(pg *pgxpool.Pool, redis *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		buffer:   buf,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start probes immediately so the first snapshot is available before the
// first tick, then keeps refreshing until Stop.
func (m *Monitor) Start() {
	go func() {
		m.refresh()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.refresh()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	close(m.stop)
}

// IsOnline reports whether both primary stores answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.PostgreSQL && m.snapshot.Redis
}

// GetStatus returns the last snapshot.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Monitor) refresh() {
	bufferOK, bufferSize := m.probeBuffer()
	next := Status{
		PostgreSQL: m.probePostgres(),
		Redis:      m.probeRedis(),
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	prev := m.snapshot
	m.snapshot = next
	m.mu.Unlock()

	wasOnline := prev.PostgreSQL && prev.Redis
	isOnline := next.PostgreSQL && next.Redis
	if wasOnline && !isOnline {
		m.logger.Warn("primary stores went offline",
			zap.Bool("postgresql", next.PostgreSQL),
			zap.Bool("redis", next.Redis))
	}
	if !wasOnline && isOnline && !prev.LastCheck.IsZero() {
		m.logger.Info("primary stores back online", zap.Int("buffered", bufferSize))
	}
}

func (m *Monitor) probePostgres() bool {
	if m.pg == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) probeRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) probeBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, 0
	}
	return true, size
}
