// FILE: lixenwraith/qlog/formatter/formatter_test.go
package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stringerValue struct{ name string }

func (s stringerValue) String() string { return "stringer:" + s.name }

type point struct {
	X int
	Y int
}

func TestFormatterArgs(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		args     []any
		expected string
	}{
		{"empty", nil, ""},
		{"single string", []any{"hello"}, "hello"},
		{"mixed scalars", []any{"count", 42, true, 1.5}, "count 42 true 1.5"},
		{"unsigned and small ints", []any{uint8(7), int16(-3), uint64(9)}, "7 -3 9"},
		{"nil", []any{nil}, "nil"},
		{"error", []any{errors.New("boom")}, "boom"},
		{"stringer", []any{stringerValue{"x"}}, "stringer:x"},
		{"bytes", []any{[]byte("raw")}, "raw"},
		{"rune", []any{'é'}, "é"},
		{"duration", []any{1500 * time.Millisecond}, "1.5s"},
		{"time", []any{ts}, "2024-01-01T12:00:00Z"},
	}

	f := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.Args(tc.args...))
		})
	}
}

func TestFormatterComposite(t *testing.T) {
	f := New()

	out := f.Args("map", map[string]int{"b": 2, "a": 1})
	assert.Equal(t, "map map[a:1 b:2]", out)

	out = f.Args(point{X: 1, Y: 2})
	assert.Contains(t, out, "X:1")
	assert.Contains(t, out, "Y:2")
	assert.NotContains(t, out, "\n")

	out = f.Args(&point{X: 3})
	assert.Contains(t, out, "X:3")
	assert.NotContains(t, out, "0x", "pointer addresses must be hidden")
	assert.Equal(t, f.Args(point{X: 3}), out, "pointers render as their pointee")

	p := &point{Y: 4}
	out = f.Args(&p)
	assert.Equal(t, f.Args(point{Y: 4}), out)

	var nilPoint *point
	assert.Equal(t, "nil", f.Args(nilPoint))

	n := 7
	assert.Equal(t, "7", f.Args(&n))
}

func TestFormatterOptions(t *testing.T) {
	f := New().
		Separator(", ").
		QuoteStrings(true).
		TimestampFormat("2006-01-02")

	ts := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, `"a b", 1, 2024-03-04`, f.Args("a b", 1, ts))
	assert.Equal(t, `"line\nbreak"`, f.Args("line\nbreak"))

	// Empty layout keeps the previous one
	f.TimestampFormat("")
	assert.Equal(t, "2024-03-04", f.Args(ts))
}

func TestFormatterAppend(t *testing.T) {
	f := New()
	dst := []byte("prefix:")
	dst = f.AppendArgs(dst, "a", 1)
	assert.Equal(t, "prefix:a 1", string(dst))
}

func TestFormatterDump(t *testing.T) {
	f := New()
	out := f.Dump(point{X: 1, Y: 2})
	assert.True(t, strings.Contains(out, "X: (int) 1"), out)
	assert.Contains(t, out, "\n")
}

func BenchmarkFormatterScalars(b *testing.B) {
	f := New()
	dst := make([]byte, 0, 256)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dst = f.AppendArgs(dst[:0], "request", 200, 1.25, true)
	}
}
