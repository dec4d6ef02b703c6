// FILE: lixenwraith/qlog/compat/zap.go
package compat

import (
	"sort"
	"strings"

	"github.com/lixenwraith/qlog"
	"github.com/lixenwraith/qlog/formatter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.Core = (*ZapCore)(nil)

// ZapCore is a zapcore.Core that hands entries to a qlog Router. Fields are
// appended to the message as sorted key=value pairs.
type ZapCore struct {
	router *qlog.Router
	system string
	fields []zapcore.Field
	fmt    *formatter.Formatter
}

// NewZapCore creates a core. The zap logger name, when set, replaces system
// as the record's system tag.
func NewZapCore(router *qlog.Router, system string) *ZapCore {
	if system == "" {
		system = "zap"
	}
	return &ZapCore{
		router: resolveRouter(router),
		system: system,
		fmt:    formatter.New(),
	}
}

// NewZapLogger is shorthand for zap.New(NewZapCore(router, system)).
func NewZapLogger(router *qlog.Router, system string, opts ...zap.Option) *zap.Logger {
	return zap.New(NewZapCore(router, system), opts...)
}

// Enabled consults the filter of the calling goroutine's logger.
func (c *ZapCore) Enabled(lvl zapcore.Level) bool {
	return c.router.Enabled(ZapLevel(lvl))
}

// With returns a core carrying additional fields.
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

// Check adds c to ce when the entry's level is enabled.
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write renders the entry and logs it through the router.
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	system := c.system
	if ent.LoggerName != "" {
		system = ent.LoggerName
	}
	c.router.Log(ZapLevel(ent.Level), system, "%s", c.render(ent.Message, fields))
	return nil
}

// Sync is a no-op; draining is owned by the qlog queues.
func (c *ZapCore) Sync() error {
	return nil
}

func (c *ZapCore) render(msg string, fields []zapcore.Field) string {
	if len(c.fields) == 0 && len(fields) == 0 {
		return msg
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(msg)
	buf := make([]byte, 0, 64)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte('=')
		buf = c.fmt.AppendValue(buf[:0], enc.Fields[k])
		sb.Write(buf)
	}
	return sb.String()
}

// ZapLevel maps a zap level onto the qlog scale. DPanic, Panic and Fatal
// map to LevelError.
func ZapLevel(lvl zapcore.Level) qlog.Level {
	switch {
	case lvl < zapcore.InfoLevel:
		return qlog.LevelDebug
	case lvl == zapcore.InfoLevel:
		return qlog.LevelInfo
	case lvl == zapcore.WarnLevel:
		return qlog.LevelWarn
	}
	return qlog.LevelError
}
