// FILE: lixenwraith/qlog/builder.go
package qlog

import (
	"io"
	"os"
)

// Builder provides a fluent API for building a Pipeline.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []PipelineOption
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the configuration and opens the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewPipeline(b.cfg, b.opts...)
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Level sets the log level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	l, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = l.String()
	return b
}

// TimestampFormat sets the record time layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// Sanitize sets the message sanitizer policy.
func (b *Builder) Sanitize(policy string) *Builder {
	b.cfg.Sanitize = policy
	return b
}

// Console enables console output to "stdout" or "stderr".
func (b *Builder) Console(target string) *Builder {
	b.cfg.EnableConsole = true
	b.cfg.ConsoleTarget = target
	return b
}

// DisableConsole turns console output off.
func (b *Builder) DisableConsole() *Builder {
	b.cfg.EnableConsole = false
	return b
}

// ConsoleFile sends console output to f instead of stdout or stderr.
func (b *Builder) ConsoleFile(f *os.File) *Builder {
	b.cfg.EnableConsole = true
	b.opts = append(b.opts, WithConsoleFile(f))
	return b
}

// Color sets console coloring: "auto", "always" or "never".
func (b *Builder) Color(mode string) *Builder {
	b.cfg.Color = mode
	return b
}

// File enables file output at directory/name.extension.
func (b *Builder) File(directory, name string) *Builder {
	b.cfg.EnableFile = true
	b.cfg.Directory = directory
	b.cfg.Name = name
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// Rotate enables size-based rotation.
func (b *Builder) Rotate(maxSizeMB, maxBackups, maxAgeDays int64, compress bool) *Builder {
	b.cfg.MaxSizeMB = maxSizeMB
	b.cfg.MaxBackups = maxBackups
	b.cfg.MaxAgeDays = maxAgeDays
	b.cfg.Compress = compress
	return b
}

// BufferSize sets the initial queue capacity in bytes.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// MaxBufferSize caps queue growth. Zero means unbounded.
func (b *Builder) MaxBufferSize(size int64) *Builder {
	b.cfg.MaxBufferSize = size
	return b
}

// ScratchSize sets how many bytes the drain goroutine hands to the sink per
// pass.
func (b *Builder) ScratchSize(size int64) *Builder {
	b.cfg.ScratchSize = size
	return b
}

// MonitorIntervalMs sets the sink error polling interval.
func (b *Builder) MonitorIntervalMs(interval int64) *Builder {
	b.cfg.MonitorIntervalMs = interval
	return b
}

// Heartbeat enables trace-level queue stats records.
func (b *Builder) Heartbeat(enable bool) *Builder {
	b.cfg.Heartbeat = enable
	return b
}

// InternalErrors routes internal diagnostics to w. Nil disables them.
func (b *Builder) InternalErrors(w io.Writer) *Builder {
	b.cfg.InternalErrorsToStderr = w != nil
	if w != nil {
		b.opts = append(b.opts, WithInternalOutput(w))
	}
	return b
}

// Override applies "key=value" strings on top of the current values.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := b.cfg.ApplyOverride(overrides...)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// Example usage:
// pipeline, err := qlog.NewBuilder().
//
//	File("/var/log/app", "server").
//	LevelString("debug").
//	Rotate(100, 5, 30, true).
//	Build()
//
// if err == nil {
//
//	 defer pipeline.Shutdown()
//	 router := pipeline.NewRouter()
//	 router.Infof("main", "pipeline ready")
//
// }
