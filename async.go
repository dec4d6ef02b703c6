// FILE: lixenwraith/qlog/async.go
package qlog

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/qlog/queue"
	"github.com/lixenwraith/qlog/sink"
)

const ansiReset = "\x1b[0m"

// AsyncSinkOption configures an AsyncSinkLogger.
type AsyncSinkOption func(*AsyncSinkLogger)

// WithLevel sets the initial filter level.
func WithLevel(level Level) AsyncSinkOption {
	return func(l *AsyncSinkLogger) {
		l.filter.SetLevel(level)
	}
}

// WithANSI enables 24-bit color output for records carrying a color hint.
func WithANSI(enable bool) AsyncSinkOption {
	return func(l *AsyncSinkLogger) {
		l.ansi = enable
	}
}

// WithOwnsSink controls whether Finish closes the sink before waiting.
func WithOwnsSink(owns bool) AsyncSinkOption {
	return func(l *AsyncSinkLogger) {
		l.ownsSink = owns
	}
}

// AsyncSinkLogger writes one line per record into a queue.Writer. Each record
// is enqueued under a single Lock, so lines from concurrent producers never
// interleave.
type AsyncSinkLogger struct {
	w      *queue.Writer
	filter *Filter

	ansi     bool
	ownsSink bool
	console  bool

	mu       sync.RWMutex
	finished bool

	dropped atomic.Uint64
}

// NewAsyncSinkLogger creates a logger over w. By default it owns the sink,
// writes no color and passes records up to DefaultLevel.
func NewAsyncSinkLogger(w *queue.Writer, opts ...AsyncSinkOption) *AsyncSinkLogger {
	l := &AsyncSinkLogger{
		w:        w,
		filter:   NewFilter(DefaultLevel),
		ownsSink: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewConsoleLogger creates a logger over stdout or stderr. Color is enabled
// when f is a terminal; pass WithANSI to override. The stream is never
// closed, and Log calls racing with or following Finish are ignored.
func NewConsoleLogger(f *os.File, queueOpts []queue.Option, opts ...AsyncSinkOption) (*AsyncSinkLogger, error) {
	w, err := queue.New(sink.Console(f), queueOpts...)
	if err != nil {
		return nil, fmtErrorf("failed to create console queue: %w", err)
	}

	base := []AsyncSinkOption{WithANSI(sink.IsTerminal(f)), WithOwnsSink(false)}
	l := NewAsyncSinkLogger(w, append(base, opts...)...)
	l.console = true
	return l, nil
}

// Log enqueues rec as one line. It panics after Finish unless the logger
// is a console logger.
func (l *AsyncSinkLogger) Log(rec Record) {
	if l.filter.Drop(rec.Level) {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.finished {
		if l.console {
			return
		}
		panic("qlog: Log called after Finish")
	}

	line := appendLine(make([]byte, 0, len(rec.Line())+32), rec, l.ansi && rec.HasColor)
	lk := l.w.Lock()
	_, err := lk.Write(line)
	lk.Unlock()
	if err != nil {
		l.dropped.Add(1)
	}
}

// appendLine renders rec with its optional color wrapping and the line
// terminator. The result is enqueued with a single write so a growth failure
// drops the whole record.
func appendLine(dst []byte, rec Record, colored bool) []byte {
	if colored {
		dst = append(dst, ansiColor(rec.Color)...)
	}
	dst = append(dst, rec.Line()...)
	if colored {
		dst = append(dst, ansiReset...)
	}
	return append(dst, queue.Newline...)
}

// Finish closes the sink if owned and waits for the queue to drain. Only the
// first call has an effect.
func (l *AsyncSinkLogger) Finish() {
	l.mu.Lock()
	if l.finished {
		l.mu.Unlock()
		return
	}
	l.finished = true
	l.mu.Unlock()

	if l.ownsSink {
		l.w.Close()
	}
	l.w.Wait()
}

func (l *AsyncSinkLogger) Filter() *Filter { return l.filter }

func (l *AsyncSinkLogger) OnFilterChange() {}

// Writer returns the underlying queue.
func (l *AsyncSinkLogger) Writer() *queue.Writer { return l.w }

// Err returns the last sink error recorded by the queue.
func (l *AsyncSinkLogger) Err() error { return l.w.Err() }

// Dropped returns how many records could not be enqueued.
func (l *AsyncSinkLogger) Dropped() uint64 { return l.dropped.Load() }

// IsConsole reports whether l was created by NewConsoleLogger.
func (l *AsyncSinkLogger) IsConsole() bool { return l.console }

func ansiColor(c RGB) string {
	b := make([]byte, 0, 20)
	b = append(b, "\x1b[38;2;"...)
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	b = append(b, 'm')
	return string(b)
}
