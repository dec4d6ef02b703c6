// FILE: lixenwraith/qlog/queue/writer.go

// Package queue provides an asynchronous, growable byte queue drained by a
// single background goroutine into a Sink.
//
// Producers never block on I/O and never see back-pressure: when a write does
// not fit, the ring buffer doubles until it does. Sink failures do not reach
// producers; they are recorded and must be polled with Writer.Err.
package queue

import (
	"math"
	"sync"
)

const (
	// DefaultCapacity is the initial ring size.
	DefaultCapacity = 8 * 1024
	// DefaultScratchSize bounds how many bytes one drain pass hands to the sink.
	DefaultScratchSize = 64 * 1024

	minCapacity = 2
)

type state uint8

const (
	stateRunning state = iota
	stateCloseRequested
	stateExitRequested
)

func (s state) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateCloseRequested:
		return "close_requested"
	case stateExitRequested:
		return "exit_requested"
	}
	return "unknown"
}

// Option configures a Writer at construction.
type Option func(*options)

type options struct {
	capacity    int
	scratchSize int
	maxCapacity int
}

// WithCapacity sets the initial ring size in bytes (at least 2).
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithScratchSize sets the drain batch size in bytes.
func WithScratchSize(n int) Option {
	return func(o *options) {
		o.scratchSize = n
	}
}

// WithMaxCapacity caps buffer growth. Zero means unbounded.
func WithMaxCapacity(n int) Option {
	return func(o *options) {
		o.maxCapacity = n
	}
}

// Stats is a point-in-time snapshot of a Writer.
type Stats struct {
	Len       int    // pending bytes
	Cap       int    // ring capacity
	Enqueued  uint64 // bytes accepted from producers
	Drained   uint64 // bytes handed to the sink
	Grows     uint64 // number of buffer reallocations
	Failures  uint64 // sink operations that returned an error
	LastError error
}

// Writer is the asynchronous write queue.
//
// Two owners hold a Writer: the handle returned by New and the drain
// goroutine. Storage is released once both have let go, whichever is last.
type Writer struct {
	mu    sync.Mutex
	ring  Ring
	sink  Sink
	err   error
	state state

	done chan struct{} // drain goroutine handle, nil once waited or detached
	wake chan struct{} // binary semaphore, capacity 1

	refs   int
	waited bool
	freed  bool

	maxCapacity int
	scratchSize int

	enqueued uint64
	drained  uint64
	grows    uint64
	failures uint64
}

// New creates a Writer over sink and starts its drain goroutine.
func New(sink Sink, opts ...Option) (*Writer, error) {
	if sink == nil {
		return nil, fmtErrorf("sink cannot be nil")
	}

	o := options{
		capacity:    DefaultCapacity,
		scratchSize: DefaultScratchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.capacity < minCapacity {
		return nil, fmtErrorf("capacity must be at least %d: %d", minCapacity, o.capacity)
	}
	if o.scratchSize <= 0 {
		return nil, fmtErrorf("scratch size must be positive: %d", o.scratchSize)
	}
	if o.maxCapacity < 0 || (o.maxCapacity > 0 && o.maxCapacity < o.capacity) {
		return nil, fmtErrorf("max capacity %d is below initial capacity %d", o.maxCapacity, o.capacity)
	}

	w := &Writer{
		ring:        NewRing(o.capacity),
		sink:        sink,
		state:       stateRunning,
		done:        make(chan struct{}),
		wake:        make(chan struct{}, 1),
		refs:        2,
		maxCapacity: o.maxCapacity,
		scratchSize: o.scratchSize,
	}
	go w.drain(w.done)

	return w, nil
}

// Locked is the token returned by Writer.Lock. Its methods append to the
// queue without taking the mutex, so a sequence of them lands contiguously.
type Locked struct {
	w *Writer
}

// Lock acquires the queue mutex. The returned token must be released with
// Unlock; until then no other producer can interleave bytes.
func (w *Writer) Lock() Locked {
	w.mu.Lock()
	if w.freed {
		w.mu.Unlock()
		panic("queue: Lock called after Free")
	}
	if w.waited {
		w.mu.Unlock()
		panic("queue: Lock called after Wait")
	}
	return Locked{w: w}
}

// Write appends p while the lock is held.
func (l *Locked) Write(p []byte) (int, error) {
	return l.writer().writeUnlocked(p)
}

// WriteString appends s while the lock is held.
func (l *Locked) WriteString(s string) (int, error) {
	return l.writer().writeUnlocked([]byte(s))
}

// WriteNewline appends the platform line terminator while the lock is held.
func (l *Locked) WriteNewline() error {
	_, err := l.writer().writeUnlocked([]byte(Newline))
	return err
}

// Unlock releases the mutex and wakes the drain goroutine.
func (l *Locked) Unlock() {
	w := l.writer()
	l.w = nil
	w.mu.Unlock()
	w.signal()
}

func (l *Locked) writer() *Writer {
	if l.w == nil {
		panic("queue: use of Locked after Unlock")
	}
	return l.w
}

// Write enqueues p. It implements io.Writer; the only possible error is a
// *GrowthError when a growth ceiling is configured.
func (w *Writer) Write(p []byte) (int, error) {
	l := w.Lock()
	n, err := l.Write(p)
	l.Unlock()
	return n, err
}

// WriteString enqueues s.
func (w *Writer) WriteString(s string) (int, error) {
	l := w.Lock()
	n, err := l.WriteString(s)
	l.Unlock()
	return n, err
}

// WriteNewline enqueues the platform line terminator.
func (w *Writer) WriteNewline() error {
	l := w.Lock()
	err := l.WriteNewline()
	l.Unlock()
	return err
}

// writeUnlocked appends p to the ring, growing it when needed. Caller holds mu.
func (w *Writer) writeUnlocked(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !w.ring.Append(p) {
		if err := w.grow(p); err != nil {
			return 0, err
		}
	}
	w.enqueued += uint64(len(p))
	return len(p), nil
}

// grow reallocates the ring so that pending bytes plus p fit, linearizing
// the pending region at offset 0. Capacity only ever doubles.
func (w *Writer) grow(p []byte) error {
	pending := w.ring.Len()
	needed := pending + len(p) + 1

	capacity := w.ring.Cap()
	if capacity < minCapacity {
		capacity = minCapacity
	}
	for capacity < needed {
		if capacity > math.MaxInt/2 {
			return &GrowthError{Pending: pending, Requested: len(p), Limit: math.MaxInt}
		}
		capacity *= 2
	}
	if w.maxCapacity > 0 && capacity > w.maxCapacity {
		if needed > w.maxCapacity {
			return &GrowthError{Pending: pending, Requested: len(p), Limit: w.maxCapacity}
		}
		capacity = w.maxCapacity
	}

	buf := make([]byte, capacity)
	first, second := w.ring.Spans()
	n := copy(buf, first)
	n += copy(buf[n:], second)
	n += copy(buf[n:], p)

	w.ring = Ring{buf: buf, r: 0, w: n}
	w.grows++
	return nil
}

// Err returns the most recent sink error observed by the drain goroutine,
// or nil. Later failures replace earlier ones; successes do not clear it.
func (w *Writer) Err() error {
	w.mu.Lock()
	w.mustNotBeFreed("Err")
	err := w.err
	w.mu.Unlock()
	return err
}

// Len returns the number of bytes still queued.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ring.Len()
}

// Cap returns the current ring capacity.
func (w *Writer) Cap() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ring.Cap()
}

// Stats returns a snapshot of the queue counters.
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Len:       w.ring.Len(),
		Cap:       w.ring.Cap(),
		Enqueued:  w.enqueued,
		Drained:   w.drained,
		Grows:     w.grows,
		Failures:  w.failures,
		LastError: w.err,
	}
}

// Close asks the drain goroutine to close the sink once the queue is empty.
// It does not block. It has no effect after Wait has requested exit.
func (w *Writer) Close() {
	w.mu.Lock()
	w.mustNotBeFreed("Close")
	if w.state == stateRunning {
		w.state = stateCloseRequested
	}
	w.mu.Unlock()
	w.signal()
}

// Wait asks the drain goroutine to exit once the queue is empty and blocks
// until it has. The sink is closed only if Close was called first. After
// Wait returns nothing is drained anymore; a second Wait returns at once.
func (w *Writer) Wait() {
	w.mu.Lock()
	w.mustNotBeFreed("Wait")
	done := w.done
	w.done = nil
	w.waited = true
	if w.state == stateRunning {
		w.state = stateExitRequested
	}
	w.mu.Unlock()
	w.signal()

	if done != nil {
		<-done
	}
}

// Free drops the caller's ownership. If Wait was never called the drain
// goroutine is detached: it is asked to exit after draining and finishes on
// its own. Any further use of w panics.
func (w *Writer) Free() {
	w.mu.Lock()
	w.mustNotBeFreed("Free")
	if w.done != nil {
		w.done = nil
		if w.state == stateRunning {
			w.state = stateExitRequested
		}
	}
	w.freed = true
	w.release()
	w.mu.Unlock()
	w.signal()
}

// release drops one ownership reference and frees storage at zero. Caller holds mu.
func (w *Writer) release() {
	w.refs--
	if w.refs == 0 {
		w.ring = Ring{}
		w.sink = nil
	}
}

// mustNotBeFreed panics if w was freed. Caller holds mu without a deferred
// unlock; mu is released before the panic.
func (w *Writer) mustNotBeFreed(op string) {
	if w.freed {
		w.mu.Unlock()
		panic("queue: " + op + " called after Free")
	}
}

// signal posts the wake-up semaphore without blocking. The drain goroutine
// always re-checks the real state, so redundant signals are harmless.
func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// drain is the background loop. It owns every call into the sink.
func (w *Writer) drain(done chan struct{}) {
	defer close(done)

	scratch := make([]byte, w.scratchSize)

	w.mu.Lock()
	for {
		if w.ring.Len() == 0 {
			if w.state == stateRunning {
				w.mu.Unlock()
				<-w.wake
				w.mu.Lock()
				continue
			}

			if w.state == stateCloseRequested {
				if err := w.sink.Close(); err != nil {
					w.err = err
					w.failures++
				}
			}
			w.release()
			w.mu.Unlock()
			return
		}

		n := w.ring.Consume(scratch)
		sink := w.sink
		w.mu.Unlock()

		err := emit(sink, scratch[:n])

		w.mu.Lock()
		w.drained += uint64(n)
		if err != nil {
			w.err = err
			w.failures++
		}
	}
}

// emit writes, flushes and syncs p, returning the first failure. All three
// steps are attempted regardless.
func emit(s Sink, p []byte) error {
	_, err := s.Write(p)
	if ferr := s.Flush(); err == nil {
		err = ferr
	}
	if serr := s.Sync(); err == nil {
		err = serr
	}
	return err
}
