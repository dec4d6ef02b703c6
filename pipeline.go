// FILE: lixenwraith/qlog/pipeline.go
package qlog

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/qlog/formatter"
	"github.com/lixenwraith/qlog/queue"
	"github.com/lixenwraith/qlog/sanitizer"
	"github.com/lixenwraith/qlog/sink"
)

const (
	outputConsole = "console"
	outputFile    = "file"

	// System tag of records the pipeline writes about itself
	pipelineSystem = "qlog"
)

// PipelineOption adjusts a Pipeline beyond what Config covers.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	console     *os.File
	internalOut io.Writer
}

// WithConsoleFile replaces the stream selected by console_target.
func WithConsoleFile(f *os.File) PipelineOption {
	return func(o *pipelineOptions) {
		o.console = f
	}
}

// WithInternalOutput redirects internal diagnostics, stderr by default.
func WithInternalOutput(w io.Writer) PipelineOption {
	return func(o *pipelineOptions) {
		o.internalOut = w
	}
}

var defaultHeartbeatFormatter = formatter.New()

type output struct {
	name   string
	logger *AsyncSinkLogger
}

// Pipeline is a ready-to-use logger stack built from a Config: a console
// and/or file output fanned out behind one Logger, plus a Monitor that
// surfaces sink failures.
type Pipeline struct {
	cfg      *Config
	root     *FanOutLogger
	outputs  []output
	monitor  *Monitor
	internal *internalLogger

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewPipeline validates cfg and opens every enabled output.
func NewPipeline(cfg *Config, opts ...PipelineOption) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	o := pipelineOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		cfg:      cfg,
		internal: newInternalLogger(cfg.InternalErrorsToStderr, cfg.InternalErrorRate, o.internalOut),
	}

	if cfg.EnableConsole {
		l, err := p.openConsole(o.console)
		if err != nil {
			return nil, err
		}
		p.outputs = append(p.outputs, output{name: outputConsole, logger: l})
	}

	if cfg.EnableFile {
		l, err := p.openFile()
		if err != nil {
			p.finishOutputs()
			return nil, err
		}
		p.outputs = append(p.outputs, output{name: outputFile, logger: l})
	}

	children := make([]Logger, len(p.outputs))
	for i, out := range p.outputs {
		children[i] = out.logger
	}
	p.root = NewFanOutLogger(children...)

	monOpts := []MonitorOption{WithErrorHandler(p.reportSinkError)}
	if cfg.Heartbeat {
		monOpts = append(monOpts, WithStatsHandler(p.heartbeat))
	}
	p.monitor = NewMonitor(time.Duration(cfg.MonitorIntervalMs)*time.Millisecond, monOpts...)
	for _, out := range p.outputs {
		p.monitor.Watch(out.name, out.logger.Writer())
	}
	p.monitor.Start()

	return p, nil
}

func (p *Pipeline) queueOptions() []queue.Option {
	return []queue.Option{
		queue.WithCapacity(int(p.cfg.BufferSize)),
		queue.WithMaxCapacity(int(p.cfg.MaxBufferSize)),
		queue.WithScratchSize(int(p.cfg.ScratchSize)),
	}
}

func (p *Pipeline) openConsole(f *os.File) (*AsyncSinkLogger, error) {
	if f == nil {
		f = os.Stderr
		if p.cfg.ConsoleTarget == "stdout" {
			f = os.Stdout
		}
	}

	opts := []AsyncSinkOption{WithLevel(p.cfg.outputLevel(p.cfg.ConsoleLevel))}
	switch p.cfg.Color {
	case "always":
		opts = append(opts, WithANSI(true))
	case "never":
		opts = append(opts, WithANSI(false))
	}

	return NewConsoleLogger(f, p.queueOptions(), opts...)
}

func (p *Pipeline) openFile() (*AsyncSinkLogger, error) {
	name := p.cfg.Name
	if p.cfg.Extension != "" {
		name += "." + p.cfg.Extension
	}
	path := filepath.Join(p.cfg.Directory, name)

	var (
		s   queue.Sink
		err error
	)
	if p.cfg.MaxSizeMB > 0 {
		s, err = sink.Rotating(sink.RotateConfig{
			Path:       path,
			MaxSizeMB:  int(p.cfg.MaxSizeMB),
			MaxBackups: int(p.cfg.MaxBackups),
			MaxAgeDays: int(p.cfg.MaxAgeDays),
			Compress:   p.cfg.Compress,
			LocalTime:  true,
		})
	} else {
		s, err = sink.OpenFile(path)
	}
	if err != nil {
		return nil, fmtErrorf("failed to open log file %s: %w", path, err)
	}

	w, err := queue.New(s, p.queueOptions()...)
	if err != nil {
		_ = s.Close()
		return nil, fmtErrorf("failed to create file queue: %w", err)
	}
	return NewAsyncSinkLogger(w, WithLevel(p.cfg.outputLevel(p.cfg.FileLevel))), nil
}

func (p *Pipeline) reportSinkError(name string, err error) {
	p.internal.logf("%s sink error: %v", name, err)
}

func (p *Pipeline) heartbeat(name string, seq uint64, s queue.Stats) {
	if p.root.Filter().Drop(LevelTrace) {
		return
	}
	msg := defaultHeartbeatFormatter.Args(
		"type", "queue",
		"output", name,
		"sequence", seq,
		"len", s.Len,
		"cap", s.Cap,
		"enqueued", s.Enqueued,
		"drained", s.Drained,
		"grows", s.Grows,
		"failures", s.Failures,
	)
	p.root.Log(NewRecord(time.Now(), p.cfg.TimestampFormat, LevelTrace, nil, pipelineSystem, msg))
}

// Logger returns the root logger of the pipeline.
func (p *Pipeline) Logger() Logger {
	return p.root
}

// Config returns a copy of the configuration the pipeline was built from.
func (p *Pipeline) Config() *Config {
	return p.cfg.Clone()
}

// RouterOptions returns the record-building options matching the config.
func (p *Pipeline) RouterOptions() []RouterOption {
	return []RouterOption{
		WithTimestampFormat(p.cfg.TimestampFormat),
		WithSanitizer(sanitizer.ForPolicy(sanitizer.PolicyPreset(p.cfg.Sanitize))),
	}
}

// NewRouter creates a router configured for this pipeline with the root
// logger installed as its global logger.
func (p *Pipeline) NewRouter(opts ...RouterOption) *Router {
	r := NewRouter(append(p.RouterOptions(), opts...)...)
	r.SetGlobalLogger(p.root)
	return r
}

// SetLevel changes the filter of every output.
func (p *Pipeline) SetLevel(level Level) {
	for _, out := range p.outputs {
		out.logger.Filter().SetLevel(level)
	}
	p.root.OnFilterChange()
}

// Output returns the named output ("console" or "file"), or nil.
func (p *Pipeline) Output(name string) *AsyncSinkLogger {
	for _, out := range p.outputs {
		if out.name == name {
			return out.logger
		}
	}
	return nil
}

// Monitor returns the pipeline's monitor.
func (p *Pipeline) Monitor() *Monitor {
	return p.monitor
}

// Err returns the sink errors currently recorded by the outputs, combined.
func (p *Pipeline) Err() error {
	var err error
	for _, out := range p.outputs {
		if e := out.logger.Err(); e != nil {
			err = combineErrors(err, fmtErrorf("%s: %w", out.name, e))
		}
	}
	return err
}

// Shutdown stops the monitor, drains and closes every output and returns
// the combined sink errors. Later calls return the same result.
func (p *Pipeline) Shutdown() error {
	p.shutdownOnce.Do(func() {
		p.monitor.Stop()
		p.root.Finish()
		p.shutdownErr = p.Err()
		if p.shutdownErr != nil {
			p.internal.logf("shutdown: %v", p.shutdownErr)
		}
	})
	return p.shutdownErr
}

func (p *Pipeline) finishOutputs() {
	for _, out := range p.outputs {
		out.logger.Finish()
	}
}
