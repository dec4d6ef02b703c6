// FILE: lixenwraith/qlog/sink/sink.go

// Package sink provides byte destinations for queue.Writer: plain files,
// size-rotated files, console streams and an in-memory recorder.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lixenwraith/qlog/queue"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// fileSink writes to an *os.File it owns.
type fileSink struct {
	f *os.File
}

// OpenFile opens path for appending, creating parent directories, and
// returns a sink that fsyncs on Sync and closes the file on Close.
func OpenFile(path string) (queue.Sink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmtErrorf("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory for '%s': %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	return &fileSink{f: f}, nil
}

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *fileSink) Flush() error                { return nil }
func (s *fileSink) Sync() error                 { return s.f.Sync() }
func (s *fileSink) Close() error                { return s.f.Close() }

// RotateConfig describes a size-rotated log file.
type RotateConfig struct {
	Path       string
	MaxSizeMB  int  // rotate once the file reaches this size
	MaxBackups int  // rotated files to keep, 0 keeps all
	MaxAgeDays int  // days to keep rotated files, 0 disables age pruning
	Compress   bool // gzip rotated files
	LocalTime  bool // use local time in backup names
}

// rotatingSink wraps a lumberjack.Logger. Lumberjack has no fsync hook, so
// Sync is a no-op and durability is left to the kernel.
type rotatingSink struct {
	lj *lumberjack.Logger
}

// Rotating returns a sink that rotates the file at cfg.Path by size.
func Rotating(cfg RotateConfig) (queue.Sink, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmtErrorf("rotating sink path cannot be empty")
	}
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return nil, fmtErrorf("rotation limits cannot be negative")
	}
	return &rotatingSink{
		lj: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
	}, nil
}

func (s *rotatingSink) Write(p []byte) (int, error) { return s.lj.Write(p) }
func (s *rotatingSink) Flush() error                { return nil }
func (s *rotatingSink) Sync() error                 { return nil }
func (s *rotatingSink) Close() error                { return s.lj.Close() }

// consoleSink writes to a process stream without ever closing it.
type consoleSink struct {
	f *os.File
}

// Console returns a sink over a process stream such as os.Stdout.
// Close leaves the stream open.
func Console(f *os.File) queue.Sink {
	return &consoleSink{f: f}
}

func (s *consoleSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *consoleSink) Flush() error                { return nil }
func (s *consoleSink) Close() error                { return nil }

func (s *consoleSink) Sync() error {
	// Terminals and pipes reject fsync
	if err := s.f.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
		return err
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal that understands
// ANSI escapes.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "sink: ") {
		format = "sink: " + format
	}
	return fmt.Errorf(format, args...)
}
