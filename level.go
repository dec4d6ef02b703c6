// FILE: lixenwraith/qlog/level.go
package qlog

import (
	"strconv"
	"strings"
)

// Level orders record severity. Lower values are more severe; a filter set
// to level L passes every record whose level is <= L.
type Level int32

// Log levels
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// DefaultLevel is the filter level of a freshly created logger.
const DefaultLevel = LevelInfo

var levelNames = [...]string{"error", "warn", "info", "debug", "trace"}

// Char returns the single-character tag written into each line.
func (l Level) Char() byte {
	switch l {
	case LevelError:
		return 'E'
	case LevelWarn:
		return 'W'
	case LevelInfo:
		return 'I'
	case LevelDebug:
		return 'D'
	case LevelTrace:
		return 'T'
	}
	return '?'
}

// String returns the lower-case level name.
func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelTrace
}

// ParseLevel converts a level name, its single-character tag or its numeric
// value to a Level.
func ParseLevel(s string) (Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "error", "e":
		return LevelError, nil
	case "warn", "warning", "w":
		return LevelWarn, nil
	case "info", "i":
		return LevelInfo, nil
	case "debug", "d":
		return LevelDebug, nil
	case "trace", "t":
		return LevelTrace, nil
	}
	if n, err := strconv.Atoi(v); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return 0, fmtErrorf("invalid level string: '%s' (use error, warn, info, debug, trace)", s)
}
