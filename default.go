// FILE: lixenwraith/qlog/default.go
package qlog

// Global instance for package-level functions
var defaultRouter = NewRouter()

// Default returns the package-level router.
func Default() *Router {
	return defaultRouter
}

// SetGlobalLogger installs the process-wide logger. It may be called once.
func SetGlobalLogger(l Logger) {
	defaultRouter.SetGlobalLogger(l)
}

// GlobalLogger returns the process-wide logger or nil.
func GlobalLogger() Logger {
	return defaultRouter.GlobalLogger()
}

// GlobalLoggerFinish finishes the process-wide logger.
func GlobalLoggerFinish() {
	defaultRouter.GlobalLoggerFinish()
}

// ScopeLogger returns the calling goroutine's logger.
func ScopeLogger() Logger {
	return defaultRouter.ScopeLogger()
}

// SetScopeLogger overrides the logger for the calling goroutine.
func SetScopeLogger(l Logger) {
	defaultRouter.SetScopeLogger(l)
}

// EnterScope overrides the calling goroutine's logger until Exit.
func EnterScope(l Logger) *ScopeGuard {
	return defaultRouter.EnterScope(l)
}

// Log formats and logs a record at level.
func Log(level Level, system, format string, args ...any) {
	defaultRouter.Log(level, system, format, args...)
}

// LogColor logs with a color hint.
func LogColor(level Level, color RGB, system, format string, args ...any) {
	defaultRouter.LogColor(level, color, system, format, args...)
}

// Errorf logs at error level
func Errorf(system, format string, args ...any) {
	defaultRouter.Errorf(system, format, args...)
}

// Warnf logs at warning level
func Warnf(system, format string, args ...any) {
	defaultRouter.Warnf(system, format, args...)
}

// Infof logs at info level
func Infof(system, format string, args ...any) {
	defaultRouter.Infof(system, format, args...)
}

// Debugf logs at debug level
func Debugf(system, format string, args ...any) {
	defaultRouter.Debugf(system, format, args...)
}

// Tracef logs at trace level
func Tracef(system, format string, args ...any) {
	defaultRouter.Tracef(system, format, args...)
}

// Error logs args at error level
func Error(system string, args ...any) {
	defaultRouter.Error(system, args...)
}

// Warn logs args at warning level
func Warn(system string, args ...any) {
	defaultRouter.Warn(system, args...)
}

// Info logs args at info level
func Info(system string, args ...any) {
	defaultRouter.Info(system, args...)
}

// Debug logs args at debug level
func Debug(system string, args ...any) {
	defaultRouter.Debug(system, args...)
}

// Trace logs args at trace level
func Trace(system string, args ...any) {
	defaultRouter.Trace(system, args...)
}

// Fatalf logs at error level, finishes the global logger and exits.
func Fatalf(system, format string, args ...any) {
	defaultRouter.Fatalf(system, format, args...)
}

// Assertf exits like Fatalf when cond is false.
func Assertf(cond bool, system, format string, args ...any) {
	defaultRouter.Assertf(cond, system, format, args...)
}

// Exit runs the exit hooks, including the global logger's Finish, then exits.
func Exit(code int) {
	defaultRouter.Exit(code)
}
