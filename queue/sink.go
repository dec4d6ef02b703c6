// FILE: lixenwraith/qlog/queue/sink.go
package queue

import (
	"errors"
	"io"
	"syscall"
)

// Sink is the byte destination drained by a Writer. Only the drain
// goroutine ever calls into a Sink, so implementations need no locking
// of their own.
type Sink interface {
	Write(p []byte) (int, error)
	Flush() error
	Sync() error
	Close() error
}

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// writerSink adapts an io.Writer, discovering Flush, Sync and Close by
// interface assertion.
type writerSink struct {
	w       io.Writer
	noClose bool
}

// WriterSink adapts any io.Writer into a Sink. Flush, Sync and Close are
// forwarded when w implements them and are no-ops otherwise.
func WriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

// NopCloserSink is WriterSink that never closes w. Use it for process
// streams such as os.Stdout that must outlive the Writer.
func NopCloserSink(w io.Writer) Sink {
	return &writerSink{w: w, noClose: true}
}

func (s *writerSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (s *writerSink) Flush() error {
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *writerSink) Sync() error {
	if f, ok := s.w.(syncer); ok {
		// Terminals and pipes reject fsync with EINVAL
		if err := f.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
			return err
		}
	}
	return nil
}

func (s *writerSink) Close() error {
	if s.noClose {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
