// FILE: lixenwraith/qlog/future.go
package qlog

import (
	"sync"
	"sync/atomic"
)

type loggerRef struct {
	l Logger
}

// FutureLogger buffers records until its real logger is known. Set replays
// the buffer in arrival order and afterwards every record goes straight to
// the delegate. No record is lost or reordered across the switch.
type FutureLogger struct {
	mu       sync.Mutex
	pending  []Record
	delegate atomic.Pointer[loggerRef]
	filter   *Filter
}

// NewFutureLogger creates an unresolved logger. Until Set it accepts every
// level.
func NewFutureLogger() *FutureLogger {
	return &FutureLogger{filter: NewFilter(LevelTrace)}
}

// Log forwards to the delegate or buffers rec by value.
func (f *FutureLogger) Log(rec Record) {
	if ref := f.delegate.Load(); ref != nil {
		ref.l.Log(rec)
		return
	}

	f.mu.Lock()
	// Set may have completed while we waited for the lock
	if ref := f.delegate.Load(); ref != nil {
		f.mu.Unlock()
		ref.l.Log(rec)
		return
	}
	f.pending = append(f.pending, rec)
	f.mu.Unlock()
}

// Set resolves the logger. It panics if called twice or with nil.
func (f *FutureLogger) Set(l Logger) {
	if l == nil {
		panic("qlog: FutureLogger.Set called with nil logger")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delegate.Load() != nil {
		panic("qlog: FutureLogger.Set called twice")
	}

	for _, rec := range f.pending {
		l.Log(rec)
	}
	f.pending = nil

	// Published only after the replay, under the lock
	f.delegate.Store(&loggerRef{l: l})
}

// IsSet reports whether Set has completed.
func (f *FutureLogger) IsSet() bool {
	return f.delegate.Load() != nil
}

// Pending returns the number of buffered records.
func (f *FutureLogger) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Finish finishes the delegate. Records still buffered are discarded.
func (f *FutureLogger) Finish() {
	if ref := f.delegate.Load(); ref != nil {
		ref.l.Finish()
	}
}

// Filter returns the delegate's filter once set.
func (f *FutureLogger) Filter() *Filter {
	if ref := f.delegate.Load(); ref != nil {
		return ref.l.Filter()
	}
	return f.filter
}

func (f *FutureLogger) OnFilterChange() {
	if ref := f.delegate.Load(); ref != nil {
		ref.l.OnFilterChange()
	}
}
