// FILE: lixenwraith/qlog/router.go
package qlog

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/qlog/formatter"
	"github.com/lixenwraith/qlog/sanitizer"
	"github.com/petermattis/goid"
)

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTimestampFormat sets the time layout of built records.
func WithTimestampFormat(layout string) RouterOption {
	return func(r *Router) {
		if layout != "" {
			r.timestampFormat = layout
		}
	}
}

// WithSanitizer sets the policy applied to message and system text.
func WithSanitizer(s *sanitizer.Sanitizer) RouterOption {
	return func(r *Router) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// WithFormatter sets the formatter used by the args-style methods.
func WithFormatter(f *formatter.Formatter) RouterOption {
	return func(r *Router) {
		if f != nil {
			r.formatter = f
		}
	}
}

// WithExitHandler replaces os.Exit for Exit, Fatalf and Assertf.
func WithExitHandler(fn func(code int)) RouterOption {
	return func(r *Router) {
		if fn != nil {
			r.exit = fn
		}
	}
}

// WithClock replaces time.Now when stamping records.
func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// Router resolves the logger for the calling goroutine and turns calls into
// records. The global logger is set once; each goroutine may override it
// with a scope logger. Go has no thread-local storage, so per-goroutine
// state is keyed by goroutine id.
type Router struct {
	global atomic.Pointer[loggerRef]

	scopes sync.Map // int64 -> Logger
	active sync.Map // int64 -> struct{}, goroutines currently inside Log

	timestampFormat string
	sanitizer       *sanitizer.Sanitizer
	formatter       *formatter.Formatter
	now             func() time.Time

	exitMu    sync.Mutex
	exitHooks []func()
	exit      func(code int)

	reentered atomic.Uint64
}

// NewRouter creates a router with no global logger. Messages are sanitized
// with the txt policy by default.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		timestampFormat: DefaultTimestampFormat,
		sanitizer:       sanitizer.ForPolicy(sanitizer.PolicyTxt),
		formatter:       formatter.New(),
		now:             time.Now,
		exit:            os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetGlobalLogger installs the process-wide logger and registers its Finish
// as an exit hook. A second call finishes the current global logger and
// panics.
func (r *Router) SetGlobalLogger(l Logger) {
	if l == nil {
		panic("qlog: SetGlobalLogger called with nil logger")
	}
	if !r.global.CompareAndSwap(nil, &loggerRef{l: l}) {
		r.fatal("SetGlobalLogger called twice")
	}
	r.AddExitHook(r.GlobalLoggerFinish)
}

// GlobalLogger returns the global logger or nil.
func (r *Router) GlobalLogger() Logger {
	if ref := r.global.Load(); ref != nil {
		return ref.l
	}
	return nil
}

// GlobalLoggerFinish finishes the global logger if one is set.
func (r *Router) GlobalLoggerFinish() {
	if ref := r.global.Load(); ref != nil {
		ref.l.Finish()
	}
}

// ScopeLogger returns the calling goroutine's override, else the global
// logger, else nil.
func (r *Router) ScopeLogger() Logger {
	return r.resolve(goid.Get())
}

// SetScopeLogger sets the calling goroutine's override. Nil clears it.
// Overrides are keyed by goroutine id and outlive the goroutine, so a
// goroutine must clear its override before returning or the entry stays in
// the router for the life of the process.
func (r *Router) SetScopeLogger(l Logger) {
	r.setScope(goid.Get(), l)
}

func (r *Router) resolve(id int64) Logger {
	if v, ok := r.scopes.Load(id); ok {
		return v.(Logger)
	}
	return r.GlobalLogger()
}

func (r *Router) setScope(id int64, l Logger) {
	if l == nil {
		r.scopes.Delete(id)
		return
	}
	r.scopes.Store(id, l)
}

// ScopeGuard restores the previous scope override on Exit.
type ScopeGuard struct {
	r      *Router
	id     int64
	prev   Logger
	exited bool
}

// EnterScope installs l as the calling goroutine's override until the
// returned guard's Exit is called. Every EnterScope must be paired with
// Exit on the same goroutine; an unexited guard leaks its entry once the
// goroutine ends.
//
//	defer router.EnterScope(mem).Exit()
func (r *Router) EnterScope(l Logger) *ScopeGuard {
	id := goid.Get()
	g := &ScopeGuard{r: r, id: id}
	if v, ok := r.scopes.Load(id); ok {
		g.prev = v.(Logger)
	}
	r.setScope(id, l)
	return g
}

// Exit restores the override that was active before EnterScope. Repeated
// calls have no effect.
func (g *ScopeGuard) Exit() {
	if g.exited {
		return
	}
	g.exited = true
	g.r.setScope(g.id, g.prev)
}

// Log builds a record and hands it to the resolved logger. Calls made while
// the same goroutine is already inside Log are dropped, so a logger that
// logs from its own Log path cannot recurse.
func (r *Router) Log(level Level, system, format string, args ...any) {
	r.log(level, nil, system, func() string { return sprintf(format, args) })
}

// LogColor is Log with a color hint for terminal output.
func (r *Router) LogColor(level Level, color RGB, system, format string, args ...any) {
	r.log(level, &color, system, func() string { return sprintf(format, args) })
}

func (r *Router) log(level Level, color *RGB, system string, message func() string) {
	id := goid.Get()
	if _, busy := r.active.LoadOrStore(id, struct{}{}); busy {
		r.reentered.Add(1)
		return
	}
	defer r.active.Delete(id)

	l := r.resolve(id)
	if l == nil || l.Filter().Drop(level) {
		return
	}

	l.Log(r.record(level, color, system, message()))
}

func (r *Router) record(level Level, color *RGB, system, msg string) Record {
	return NewRecord(r.now(), r.timestampFormat, level, color,
		r.sanitizer.Sanitize(system), r.sanitizer.Sanitize(msg))
}

// Reentered returns how many calls the reentrancy guard dropped.
func (r *Router) Reentered() uint64 {
	return r.reentered.Load()
}

// Enabled reports whether a record at level would reach the calling
// goroutine's logger.
func (r *Router) Enabled(level Level) bool {
	l := r.ScopeLogger()
	return l != nil && l.Filter().Enabled(level)
}

// Errorf logs at LevelError.
func (r *Router) Errorf(system, format string, args ...any) {
	r.Log(LevelError, system, format, args...)
}

// Warnf logs at LevelWarn.
func (r *Router) Warnf(system, format string, args ...any) {
	r.Log(LevelWarn, system, format, args...)
}

// Infof logs at LevelInfo.
func (r *Router) Infof(system, format string, args ...any) {
	r.Log(LevelInfo, system, format, args...)
}

// Debugf logs at LevelDebug.
func (r *Router) Debugf(system, format string, args ...any) {
	r.Log(LevelDebug, system, format, args...)
}

// Tracef logs at LevelTrace.
func (r *Router) Tracef(system, format string, args ...any) {
	r.Log(LevelTrace, system, format, args...)
}

// LogArgs logs args joined by spaces. Composite values are dumped.
func (r *Router) LogArgs(level Level, system string, args ...any) {
	r.log(level, nil, system, func() string { return r.formatter.Args(args...) })
}

// Error logs args at LevelError.
func (r *Router) Error(system string, args ...any) { r.LogArgs(LevelError, system, args...) }

// Warn logs args at LevelWarn.
func (r *Router) Warn(system string, args ...any) { r.LogArgs(LevelWarn, system, args...) }

// Info logs args at LevelInfo.
func (r *Router) Info(system string, args ...any) { r.LogArgs(LevelInfo, system, args...) }

// Debug logs args at LevelDebug.
func (r *Router) Debug(system string, args ...any) { r.LogArgs(LevelDebug, system, args...) }

// Trace logs args at LevelTrace.
func (r *Router) Trace(system string, args ...any) { r.LogArgs(LevelTrace, system, args...) }

// Fatalf logs at LevelError and exits with status 1 after running the exit
// hooks.
func (r *Router) Fatalf(system, format string, args ...any) {
	r.Log(LevelError, system, format, args...)
	r.Exit(1)
}

// Assertf is Fatalf when cond is false.
func (r *Router) Assertf(cond bool, system, format string, args ...any) {
	if cond {
		return
	}
	r.Log(LevelError, system, "assertion failed: "+format, args...)
	r.Exit(1)
}

// AddExitHook registers fn to run on Exit. Hooks run in reverse order of
// registration, once.
func (r *Router) AddExitHook(fn func()) {
	r.exitMu.Lock()
	r.exitHooks = append(r.exitHooks, fn)
	r.exitMu.Unlock()
}

// Exit runs the exit hooks and then the exit handler.
func (r *Router) Exit(code int) {
	r.runExitHooks()
	r.exit(code)
}

func (r *Router) runExitHooks() {
	r.exitMu.Lock()
	hooks := r.exitHooks
	r.exitHooks = nil
	r.exitMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// fatal reports programmer misuse: the global logger is flushed so the
// panic does not lose earlier records.
func (r *Router) fatal(msg string) {
	r.GlobalLoggerFinish()
	panic("qlog: " + msg)
}
