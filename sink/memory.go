// FILE: lixenwraith/qlog/sink/memory.go
package sink

import (
	"bytes"
	"sync"
)

// Memory is a thread-safe in-memory sink. It records every byte written and
// counts Flush, Sync and Close calls. Failures can be injected per operation.
type Memory struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	writes  int
	flushes int
	syncs   int
	closes  int

	writeErr error
	flushErr error
	syncErr  error
	closeErr error

	// gate, when non-nil, blocks each Write until a value is received
	gate chan struct{}
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write records p, or discards it and returns the injected write error.
func (m *Memory) Write(p []byte) (int, error) {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.buf.Write(p)
}

func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return m.flushErr
}

func (m *Memory) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs++
	return m.syncErr
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return m.closeErr
}

// FailWrites makes subsequent writes fail with err (nil restores success).
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// FailSync makes subsequent syncs fail with err (nil restores success).
func (m *Memory) FailSync(err error) {
	m.mu.Lock()
	m.syncErr = err
	m.mu.Unlock()
}

// FailClose makes Close fail with err.
func (m *Memory) FailClose(err error) {
	m.mu.Lock()
	m.closeErr = err
	m.mu.Unlock()
}

// Gate makes every subsequent Write block until a value is sent on the
// returned channel. Closing the channel releases all writes.
func (m *Memory) Gate() chan<- struct{} {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()
	return gate
}

// Bytes returns a copy of everything written so far.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.buf.Bytes())
}

// String returns everything written so far.
func (m *Memory) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}

// Writes returns the number of Write calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Syncs returns the number of Sync calls.
func (m *Memory) Syncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncs
}

// Flushes returns the number of Flush calls.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Closes returns the number of Close calls.
func (m *Memory) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
