// FILE: lixenwraith/qlog/fanout.go
package qlog

// FanOutLogger forwards each record to a fixed list of children in
// registration order. Its own filter is the least restrictive of its
// children, so a record is only built when at least one child wants it.
type FanOutLogger struct {
	children []Logger
	filter   *Filter
}

// NewFanOutLogger creates a fan-out over children. Nil entries are skipped.
func NewFanOutLogger(children ...Logger) *FanOutLogger {
	f := &FanOutLogger{filter: NewFilter(LevelError)}
	for _, c := range children {
		if c != nil {
			f.children = append(f.children, c)
		}
	}
	f.recompute()
	return f
}

// Log forwards rec to every child. Each child applies its own filter.
func (f *FanOutLogger) Log(rec Record) {
	if f.filter.Drop(rec.Level) {
		return
	}
	for _, c := range f.children {
		c.Log(rec)
	}
}

// Finish finishes every child in order.
func (f *FanOutLogger) Finish() {
	for _, c := range f.children {
		c.Finish()
	}
}

func (f *FanOutLogger) Filter() *Filter { return f.filter }

// OnFilterChange propagates to the children and recomputes the aggregate.
func (f *FanOutLogger) OnFilterChange() {
	for _, c := range f.children {
		c.OnFilterChange()
	}
	f.recompute()
}

// Children returns the child loggers.
func (f *FanOutLogger) Children() []Logger {
	return append([]Logger(nil), f.children...)
}

func (f *FanOutLogger) recompute() {
	level := LevelError
	for _, c := range f.children {
		if cl := c.Filter().Level(); cl > level {
			level = cl
		}
	}
	f.filter.SetLevel(level)
}
