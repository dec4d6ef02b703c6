// FILE: lixenwraith/qlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/qlog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp server logs into a qlog Router
type FastHTTPAdapter struct {
	router        *qlog.Router
	system        string
	defaultLevel  qlog.Level
	levelDetector func(string) (qlog.Level, bool) // Detects level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(router *qlog.Router, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		router:        resolveRouter(router),
		system:        "fasthttp",
		defaultLevel:  qlog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing
func WithDefaultLevel(level qlog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) (qlog.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithFastHTTPSystem sets the system tag, "fasthttp" by default
func WithFastHTTPSystem(system string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.system = system
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.router.Log(level, a.system, "%s", msg)
}

// DetectLogLevel guesses a level from message keywords
func DetectLogLevel(msg string) (qlog.Level, bool) {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return qlog.LevelError, true
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return qlog.LevelWarn, true
	}

	if strings.Contains(msgLower, "debug") {
		return qlog.LevelDebug, true
	}

	if strings.Contains(msgLower, "trace") {
		return qlog.LevelTrace, true
	}

	return 0, false
}
