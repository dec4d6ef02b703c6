// FILE: lixenwraith/qlog/utility.go
package qlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const errorPrefix = "qlog: "

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// internalLogger reports problems of the pipeline itself. It never goes
// through a queue, so it keeps working when the sinks are failing. Output
// is rate limited; suppressed messages are counted and reported with the
// next one that passes.
type internalLogger struct {
	enabled    bool
	out        io.Writer
	limiter    *rate.Limiter
	suppressed atomic.Uint64
}

func newInternalLogger(enabled bool, perSecond float64, out io.Writer) *internalLogger {
	if out == nil {
		out = os.Stderr
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &internalLogger{
		enabled: enabled,
		out:     out,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// logf writes one line prefixed with "qlog: ".
func (il *internalLogger) logf(format string, args ...any) {
	if il == nil || !il.enabled {
		return
	}
	if !il.limiter.Allow() {
		il.suppressed.Add(1)
		return
	}

	msg := fmt.Sprintf(format, args...)
	if n := il.suppressed.Swap(0); n > 0 {
		msg += fmt.Sprintf(" (%d similar messages suppressed)", n)
	}
	fmt.Fprintf(il.out, "%s%s %s\n", errorPrefix, time.Now().Format(time.RFC3339), strings.TrimRight(msg, "\n"))
}
