// FILE: lixenwraith/qlog/record.go
package qlog

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Record size limits in bytes
const (
	MaxTimestampLen = 63
	MaxSystemLen    = 31
	MaxLineLen      = 4095
)

// DefaultTimestampFormat is the layout used when none is configured.
const DefaultTimestampFormat = "2006-01-02 15:04:05.000000"

// RGB is a 24-bit color hint for terminal output.
type RGB struct {
	R, G, B uint8
}

// Record is one immutable log entry. The full line has the form
// "<timestamp> <level-char> <system>: <message>" and never exceeds
// MaxLineLen bytes. Records are plain values and are copied when buffered.
type Record struct {
	Level    Level
	HasColor bool
	Color    RGB

	line   string
	tsLen  int
	sysOff int
	sysLen int
	msgOff int
}

// NewRecord composes a record. Oversized parts are truncated at UTF-8
// boundaries. A nil color means no color hint.
func NewRecord(now time.Time, layout string, level Level, color *RGB, system, message string) Record {
	if layout == "" {
		layout = DefaultTimestampFormat
	}

	var tsBuf [MaxTimestampLen + 1]byte
	ts := now.AppendFormat(tsBuf[:0], layout)
	ts = truncateBytes(ts, MaxTimestampLen)
	system = truncateUTF8(system, MaxSystemLen)

	buf := make([]byte, 0, min(MaxLineLen, len(ts)+len(system)+len(message)+5))
	buf = append(buf, ts...)
	buf = append(buf, ' ', level.Char(), ' ')
	sysOff := len(buf)
	buf = append(buf, system...)
	buf = append(buf, ':', ' ')
	msgOff := len(buf)
	buf = append(buf, truncateUTF8(message, MaxLineLen-msgOff)...)

	rec := Record{
		Level:  level,
		line:   string(buf),
		tsLen:  len(ts),
		sysOff: sysOff,
		sysLen: len(system),
		msgOff: msgOff,
	}
	if color != nil {
		rec.HasColor = true
		rec.Color = *color
	}
	return rec
}

// BuildRecord formats the message and stamps it with the current time.
func BuildRecord(level Level, color *RGB, system, format string, args ...any) Record {
	return NewRecord(time.Now(), DefaultTimestampFormat, level, color, system, sprintf(format, args))
}

// Timestamp returns the formatted time prefix.
func (r Record) Timestamp() string { return r.line[:r.tsLen] }

// System returns the subsystem tag.
func (r Record) System() string { return r.line[r.sysOff : r.sysOff+r.sysLen] }

// Message returns the message body.
func (r Record) Message() string { return r.line[r.msgOff:] }

// Line returns the complete line without terminator.
func (r Record) Line() string { return r.line }

// String implements fmt.Stringer.
func (r Record) String() string { return r.line }

// sprintf treats a format without arguments as literal text.
func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}
