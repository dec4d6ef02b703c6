// FILE: lixenwraith/qlog/compat/gnet.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/qlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's engine logs into a qlog Router
type GnetAdapter struct {
	router       *qlog.Router
	system       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter. A nil router
// means the package-level default router.
func NewGnetAdapter(router *qlog.Router, opts ...GnetOption) *GnetAdapter {
	router = resolveRouter(router)
	adapter := &GnetAdapter{
		router: router,
		system: "gnet",
		fatalHandler: func(string) {
			router.Exit(1) // Runs exit hooks, so the global logger is flushed
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetSystem sets the system tag, "gnet" by default
func WithGnetSystem(system string) GnetOption {
	return func(a *GnetAdapter) {
		a.system = system
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.router.Debugf(a.system, format, args...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.router.Infof(a.system, format, args...)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.router.Warnf(a.system, format, args...)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.router.Errorf(a.system, format, args...)
}

// Fatalf logs at error level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.router.Errorf(a.system, "fatal: %s", msg)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

func resolveRouter(r *qlog.Router) *qlog.Router {
	if r == nil {
		return qlog.Default()
	}
	return r
}
