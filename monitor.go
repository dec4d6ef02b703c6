// FILE: lixenwraith/qlog/monitor.go
package qlog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/qlog/queue"
)

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithErrorHandler is called once for every new sink failure observed on a
// watched queue.
func WithErrorHandler(fn func(name string, err error)) MonitorOption {
	return func(m *Monitor) {
		m.onError = fn
	}
}

// WithStatsHandler is called with a snapshot of every watched queue on each
// tick.
func WithStatsHandler(fn func(name string, seq uint64, s queue.Stats)) MonitorOption {
	return func(m *Monitor) {
		m.onStats = fn
	}
}

type watched struct {
	name     string
	w        *queue.Writer
	failures uint64
}

// Monitor polls queue.Writers on an interval. Sink errors never reach
// producers, so this is where they surface.
type Monitor struct {
	interval time.Duration
	onError  func(name string, err error)
	onStats  func(name string, seq uint64, s queue.Stats)

	mu      sync.Mutex
	targets []*watched
	checkMu sync.Mutex // serializes Check

	sequence atomic.Uint64
	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMonitor creates a stopped monitor.
func NewMonitor(interval time.Duration, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Watch adds a queue under name.
func (m *Monitor) Watch(name string, w *queue.Writer) {
	m.mu.Lock()
	m.targets = append(m.targets, &watched{name: name, w: w})
	m.mu.Unlock()
}

// Start launches the polling goroutine. It has no effect on a running or
// stopped monitor, or when the interval is not positive.
func (m *Monitor) Start() {
	if m.interval <= 0 || !m.started.CompareAndSwap(false, true) {
		return
	}
	go m.run()
}

// Stop terminates the polling goroutine and waits for it.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	if m.started.Load() {
		<-m.done
	}
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check polls every watched queue once.
func (m *Monitor) Check() {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	m.mu.Lock()
	targets := append([]*watched(nil), m.targets...)
	m.mu.Unlock()

	seq := m.sequence.Add(1)
	for _, t := range targets {
		s := t.w.Stats()

		// Failures only grows; the sticky error alone cannot tell old from new
		if s.Failures > t.failures {
			t.failures = s.Failures
			if m.onError != nil && s.LastError != nil {
				m.onError(t.name, s.LastError)
			}
		}

		if m.onStats != nil {
			m.onStats(t.name, seq, s)
		}
	}
}
