// FILE: lixenwraith/qlog/logger.go
package qlog

import (
	"strings"
	"sync"
)

// Logger is a destination for records. Implementations must be safe for
// concurrent Log calls.
type Logger interface {
	// Log accepts one record. Records above the logger's filter are dropped.
	Log(rec Record)
	// Finish flushes and releases the logger. It is called once at shutdown.
	Finish()
	// Filter returns the logger's level filter.
	Filter() *Filter
	// OnFilterChange is called after a filter owned by this logger or one of
	// its children was changed.
	OnFilterChange()
}

// NoOpLogger discards every record.
type NoOpLogger struct {
	filter *Filter
}

// NewNoOpLogger creates a logger that drops everything.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{filter: NewFilter(LevelError)}
}

func (n *NoOpLogger) Log(Record) {}

func (n *NoOpLogger) Finish() {}

func (n *NoOpLogger) Filter() *Filter { return n.filter }

func (n *NoOpLogger) OnFilterChange() {}

// MemoryLogger keeps every record it receives, regardless of its filter, and
// optionally forwards each one to a parent logger. It is meant for scoped
// capture, typically in tests.
type MemoryLogger struct {
	mu      sync.Mutex
	records []Record
	parent  Logger
	filter  *Filter
}

// NewMemoryLogger creates a collector. parent may be nil.
func NewMemoryLogger(parent Logger) *MemoryLogger {
	return &MemoryLogger{
		parent: parent,
		filter: NewFilter(LevelTrace),
	}
}

// Log stores rec and forwards it to the parent.
func (m *MemoryLogger) Log(rec Record) {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()

	if m.parent != nil {
		m.parent.Log(rec)
	}
}

// Finish is a no-op; the parent is not owned.
func (m *MemoryLogger) Finish() {}

func (m *MemoryLogger) Filter() *Filter { return m.filter }

func (m *MemoryLogger) OnFilterChange() {}

// Records returns a copy of the stored records.
func (m *MemoryLogger) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Lines returns the stored lines in arrival order.
func (m *MemoryLogger) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.records))
	for i, rec := range m.records {
		out[i] = rec.Line()
	}
	return out
}

// Concatenated returns all lines, each terminated by '\n'.
func (m *MemoryLogger) Concatenated() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sb strings.Builder
	for _, rec := range m.records {
		sb.WriteString(rec.Line())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Len returns the number of stored records.
func (m *MemoryLogger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Reset drops all stored records.
func (m *MemoryLogger) Reset() {
	m.mu.Lock()
	m.records = nil
	m.mu.Unlock()
}
