// FILE: lixenwraith/qlog/filter.go
package qlog

import "sync/atomic"

// Filter holds the most verbose level a logger accepts. It may be changed
// concurrently with logging.
type Filter struct {
	max atomic.Int32
}

// NewFilter creates a filter passing records up to level.
func NewFilter(level Level) *Filter {
	f := &Filter{}
	f.max.Store(int32(level))
	return f
}

// Level returns the current maximum level.
func (f *Filter) Level() Level {
	return Level(f.max.Load())
}

// SetLevel changes the maximum level. Owners of composite loggers must call
// OnFilterChange afterwards.
func (f *Filter) SetLevel(l Level) {
	f.max.Store(int32(l))
}

// Drop reports whether a record at l is filtered out.
func (f *Filter) Drop(l Level) bool {
	return l > f.Level()
}

// Enabled is the negation of Drop.
func (f *Filter) Enabled(l Level) bool {
	return !f.Drop(l)
}
