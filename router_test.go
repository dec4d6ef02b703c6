// FILE: lixenwraith/qlog/router_test.go
package qlog

import (
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/qlog/formatter"
	"github.com/lixenwraith/qlog/sanitizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestRouter creates a router with a fixed clock and a captured exit code
func createTestRouter(t *testing.T, opts ...RouterOption) (*Router, *int) {
	t.Helper()
	exitCode := -1
	base := []RouterOption{
		WithClock(func() time.Time { return testTime }),
		WithExitHandler(func(code int) { exitCode = code }),
	}
	return NewRouter(append(base, opts...)...), &exitCode
}

// reentrantLogger logs through the router from inside Log
type reentrantLogger struct {
	*MemoryLogger
	r *Router
}

func (l *reentrantLogger) Log(rec Record) {
	l.MemoryLogger.Log(rec)
	l.r.Infof("inner", "nested call")
}

// loggingStringer logs through the router while being formatted
type loggingStringer struct {
	r *Router
}

func (s loggingStringer) String() string {
	s.r.Infof("inner", "nested call")
	return "formatted"
}

func countScopes(r *Router) int {
	n := 0
	r.scopes.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestRouterNoLogger(t *testing.T) {
	r, _ := createTestRouter(t)
	assert.Nil(t, r.GlobalLogger())
	assert.Nil(t, r.ScopeLogger())
	assert.False(t, r.Enabled(LevelError))
	assert.NotPanics(t, func() {
		r.Infof("sys", "dropped silently")
		r.GlobalLoggerFinish()
	})
}

func TestRouterGlobalLogger(t *testing.T) {
	r, _ := createTestRouter(t)
	global := NewMemoryLogger(nil)
	r.SetGlobalLogger(global)

	assert.Same(t, global, r.GlobalLogger())
	assert.Same(t, global, r.ScopeLogger())

	r.Errorf("db", "connection lost: %s", "timeout")
	r.Warnf("db", "retry %d", 2)
	r.Infof("db", "connected")
	r.Debugf("db", "rows=%d", 10)
	r.Tracef("db", "frame")

	assert.Equal(t, []string{
		"2024-01-02 03:04:05.123456 E db: connection lost: timeout",
		"2024-01-02 03:04:05.123456 W db: retry 2",
		"2024-01-02 03:04:05.123456 I db: connected",
		"2024-01-02 03:04:05.123456 D db: rows=10",
		"2024-01-02 03:04:05.123456 T db: frame",
	}, global.Lines())
}

func TestRouterSetGlobalLoggerTwice(t *testing.T) {
	r, _ := createTestRouter(t)
	first := newCountingLogger()
	r.SetGlobalLogger(first)

	assert.PanicsWithValue(t, "qlog: SetGlobalLogger called twice", func() {
		r.SetGlobalLogger(NewMemoryLogger(nil))
	})
	assert.Equal(t, 1, first.Finishes(), "the existing global logger is finished before the panic")
	assert.Same(t, first, r.GlobalLogger())

	assert.Panics(t, func() { NewRouter().SetGlobalLogger(nil) })
}

func TestRouterFilter(t *testing.T) {
	r, _ := createTestRouter(t)
	l, mem := createTestSinkLogger(t, WithLevel(LevelWarn))
	r.SetGlobalLogger(l)

	assert.True(t, r.Enabled(LevelWarn))
	assert.False(t, r.Enabled(LevelInfo))

	r.Infof("sys", "filtered")
	r.Warnf("sys", "passes")
	r.GlobalLoggerFinish()

	assert.NotContains(t, mem.String(), "filtered")
	assert.Contains(t, mem.String(), "W sys: passes")
}

func TestRouterScope(t *testing.T) {
	r, _ := createTestRouter(t)
	global := NewMemoryLogger(nil)
	r.SetGlobalLogger(global)

	scoped := NewMemoryLogger(nil)
	r.SetScopeLogger(scoped)
	assert.Same(t, scoped, r.ScopeLogger())
	r.Infof("sys", "to scope")

	// Other goroutines still see the global logger
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.Same(t, global, r.ScopeLogger())
		r.Infof("sys", "to global")
	}()
	wg.Wait()

	r.SetScopeLogger(nil)
	assert.Same(t, global, r.ScopeLogger())
	r.Infof("sys", "back to global")

	assert.Equal(t, []string{"to scope"}, messages(scoped))
	assert.Equal(t, []string{"to global", "back to global"}, messages(global))
}

func TestRouterEnterScope(t *testing.T) {
	r, _ := createTestRouter(t)
	global := NewMemoryLogger(nil)
	r.SetGlobalLogger(global)

	outer := NewMemoryLogger(nil)
	inner := NewMemoryLogger(nil)

	g1 := r.EnterScope(outer)
	r.Infof("sys", "1")
	g2 := r.EnterScope(inner)
	r.Infof("sys", "2")
	g2.Exit()
	g2.Exit() // no effect
	r.Infof("sys", "3")
	g1.Exit()
	r.Infof("sys", "4")

	assert.Equal(t, []string{"1", "3"}, messages(outer))
	assert.Equal(t, []string{"2"}, messages(inner))
	assert.Equal(t, []string{"4"}, messages(global))
}

func TestRouterScopeCapture(t *testing.T) {
	r, _ := createTestRouter(t)
	global := NewMemoryLogger(nil)
	r.SetGlobalLogger(global)

	// Capture while still forwarding to the global logger
	capture := NewMemoryLogger(global)
	func() {
		defer r.EnterScope(capture).Exit()
		r.Warnf("job", "step failed")
	}()

	assert.Equal(t, []string{"step failed"}, messages(capture))
	assert.Equal(t, []string{"step failed"}, messages(global))
}

func TestRouterReentrancyGuard(t *testing.T) {
	r, _ := createTestRouter(t)
	l := &reentrantLogger{MemoryLogger: NewMemoryLogger(nil), r: r}
	r.SetGlobalLogger(l)

	r.Infof("outer", "first")
	r.Infof("outer", "second")

	assert.Equal(t, []string{"first", "second"}, messages(l.MemoryLogger))
	assert.Equal(t, uint64(2), r.Reentered())
}

func TestRouterReentrancyFromFormatting(t *testing.T) {
	r, _ := createTestRouter(t)
	mem := NewMemoryLogger(nil)
	r.SetGlobalLogger(mem)

	r.Infof("outer", "value %v", loggingStringer{r: r})
	r.Info("outer", "value", loggingStringer{r: r})

	assert.Equal(t, []string{"value formatted", "value formatted"}, messages(mem))
	assert.Equal(t, uint64(2), r.Reentered())
}

func TestRouterScopeExitRemovesEntry(t *testing.T) {
	r, _ := createTestRouter(t)
	mem := NewMemoryLogger(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g := r.EnterScope(mem)
		r.Infof("worker", "scoped")
		g.Exit()
	}()
	<-done

	assert.Equal(t, []string{"scoped"}, messages(mem))
	assert.Zero(t, countScopes(r), "exited scopes leave no entry behind")

	r.SetScopeLogger(mem)
	assert.Equal(t, 1, countScopes(r))
	r.SetScopeLogger(nil)
	assert.Zero(t, countScopes(r))
}

func TestRouterSanitizes(t *testing.T) {
	r, _ := createTestRouter(t)
	mem := NewMemoryLogger(nil)
	r.SetGlobalLogger(mem)

	r.Infof("sys\n", "line one\nline two")
	records := mem.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "line one<0a>line two", records[0].Message())
	assert.Equal(t, "sys<0a>", records[0].System())

	raw, _ := createTestRouter(t, WithSanitizer(sanitizer.ForPolicy(sanitizer.PolicyEscape)))
	mem2 := NewMemoryLogger(nil)
	raw.SetGlobalLogger(mem2)
	raw.Infof("sys", "tab\there")
	assert.Equal(t, []string{`tab\there`}, messages(mem2))
}

func TestRouterArgs(t *testing.T) {
	r, _ := createTestRouter(t)
	mem := NewMemoryLogger(nil)
	r.SetGlobalLogger(mem)

	r.Info("api", "status", 200, "ok", true)
	r.Error("api", "payload", map[string]int{"b": 2, "a": 1})
	r.Warn("api", "warn")
	r.Debug("api", 1.5)
	r.Trace("api", nil)

	assert.Equal(t, []string{"status 200 ok true", "payload map[a:1 b:2]", "warn", "1.5", "nil"}, messages(mem))

	custom, _ := createTestRouter(t, WithFormatter(formatter.New().Separator(",")))
	mem2 := NewMemoryLogger(nil)
	custom.SetGlobalLogger(mem2)
	custom.Info("api", "a", "b")
	assert.Equal(t, []string{"a,b"}, messages(mem2))
}

func TestRouterLogColor(t *testing.T) {
	r, _ := createTestRouter(t, WithTimestampFormat("15:04:05"))
	mem := NewMemoryLogger(nil)
	r.SetGlobalLogger(mem)

	r.LogColor(LevelInfo, RGB{R: 9, G: 8, B: 7}, "ui", "colored %d", 1)
	r.Log(LevelInfo, "ui", "plain")

	records := mem.Records()
	require.Len(t, records, 2)
	assert.True(t, records[0].HasColor)
	assert.Equal(t, RGB{R: 9, G: 8, B: 7}, records[0].Color)
	assert.Equal(t, "03:04:05 I ui: colored 1", records[0].Line())
	assert.False(t, records[1].HasColor)
}

func TestRouterFatalf(t *testing.T) {
	r, exitCode := createTestRouter(t)
	global := newCountingLogger()
	r.SetGlobalLogger(global)

	r.Fatalf("main", "cannot start: %v", "port in use")

	assert.Equal(t, 1, *exitCode)
	assert.Equal(t, 1, global.Finishes(), "global logger finished before exit")
	assert.Equal(t, []string{"cannot start: port in use"}, messages(global.MemoryLogger))
}

func TestRouterAssertf(t *testing.T) {
	r, exitCode := createTestRouter(t)
	global := newCountingLogger()
	r.SetGlobalLogger(global)

	r.Assertf(true, "main", "never logged")
	assert.Equal(t, -1, *exitCode)
	assert.Equal(t, 0, global.Len())

	r.Assertf(false, "main", "x=%d", 1)
	assert.Equal(t, 1, *exitCode)
	assert.Equal(t, []string{"assertion failed: x=1"}, messages(global.MemoryLogger))
	assert.Equal(t, 1, global.Finishes())
}

func TestRouterExitHooks(t *testing.T) {
	r, exitCode := createTestRouter(t)

	var order []string
	r.AddExitHook(func() { order = append(order, "first") })
	r.AddExitHook(func() { order = append(order, "second") })

	r.Exit(3)
	assert.Equal(t, 3, *exitCode)
	assert.Equal(t, []string{"second", "first"}, order)

	r.Exit(4)
	assert.Equal(t, 4, *exitCode)
	assert.Len(t, order, 2, "hooks run once")
}

func TestDefaultRouterScope(t *testing.T) {
	mem := NewMemoryLogger(nil)
	guard := EnterScope(mem)
	Infof("pkg", "from %s", "default")
	Error("pkg", "args", 1)
	Log(LevelWarn, "pkg", "generic")
	Tracef("pkg", "trace")
	guard.Exit()

	assert.Same(t, defaultRouter, Default())
	assert.Equal(t, []string{"from default", "args 1", "generic", "trace"}, messages(mem))
}

func messages(m *MemoryLogger) []string {
	var out []string
	for _, r := range m.Records() {
		out = append(out, r.Message())
	}
	return out
}
