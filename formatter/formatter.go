// FILE: lixenwraith/qlog/formatter/formatter.go

// Package formatter renders loosely typed arguments into log message text.
// Scalars are written directly; maps, slices, structs and pointers fall back
// to a compact go-spew rendering. A Formatter is safe for concurrent use.
package formatter

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

const defaultTimestampFormat = time.RFC3339Nano

// Formatter converts values to text. Configure it before sharing it.
type Formatter struct {
	timestampFormat string
	separator       string
	quoteStrings    bool
	dumper          *spew.ConfigState
}

// New creates a formatter with space-separated output.
func New() *Formatter {
	return &Formatter{
		timestampFormat: defaultTimestampFormat,
		separator:       " ",
		dumper: &spew.ConfigState{
			Indent:                  "",
			MaxDepth:                8,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// TimestampFormat sets the layout used for time.Time arguments.
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// Separator sets the text placed between arguments.
func (f *Formatter) Separator(sep string) *Formatter {
	f.separator = sep
	return f
}

// QuoteStrings makes string arguments render Go-quoted, which keeps
// embedded whitespace and control runes visible.
func (f *Formatter) QuoteStrings(quote bool) *Formatter {
	f.quoteStrings = quote
	return f
}

// MaxDepth bounds how deep composite values are dumped.
func (f *Formatter) MaxDepth(depth int) *Formatter {
	if depth > 0 {
		d := *f.dumper
		d.MaxDepth = depth
		f.dumper = &d
	}
	return f
}

// Args renders args joined by the separator.
func (f *Formatter) Args(args ...any) string {
	return string(f.AppendArgs(make([]byte, 0, 64), args...))
}

// AppendArgs appends the rendering of args to dst.
func (f *Formatter) AppendArgs(dst []byte, args ...any) []byte {
	for i, arg := range args {
		if i > 0 {
			dst = append(dst, f.separator...)
		}
		dst = f.AppendValue(dst, arg)
	}
	return dst
}

// AppendValue appends the rendering of a single value to dst.
func (f *Formatter) AppendValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		if f.quoteStrings {
			return strconv.AppendQuote(dst, val)
		}
		return append(dst, val...)

	case []byte:
		if f.quoteStrings {
			return strconv.AppendQuote(dst, string(val))
		}
		return append(dst, val...)

	case rune:
		return utf8.AppendRune(dst, val)

	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int8:
		return strconv.AppendInt(dst, int64(val), 10)
	case int16:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)

	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)

	case bool:
		return strconv.AppendBool(dst, val)

	case nil:
		return append(dst, "nil"...)

	case time.Time:
		return val.AppendFormat(dst, f.timestampFormat)

	case time.Duration:
		return append(dst, val.String()...)

	case error:
		return append(dst, val.Error()...)

	case fmt.Stringer:
		return append(dst, val.String()...)
	}

	// spew prints the address of a top-level pointer even with
	// DisablePointerAddresses set, so render the pointee instead.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		for i := 0; rv.Kind() == reflect.Pointer && i < f.dumper.MaxDepth; i++ {
			if rv.IsNil() {
				return append(dst, "nil"...)
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Pointer && rv.CanInterface() {
			return f.AppendValue(dst, rv.Interface())
		}
	}

	return append(dst, f.dumper.Sprintf("%+v", v)...)
}

// Dump returns a multi-line, indented rendering of v for debugging.
func (f *Formatter) Dump(v any) string {
	d := *f.dumper
	d.Indent = "  "
	return d.Sdump(v)
}
