// FILE: lixenwraith/qlog/queue/errors.go
package queue

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGrowth is matched by every *GrowthError.
var ErrGrowth = errors.New("queue: buffer growth limit exceeded")

// GrowthError reports that an enqueue could not be absorbed because the
// buffer would have to grow past its configured ceiling. Nothing from the
// rejected write is enqueued. Callers that treat allocation failure as
// unrecoverable should abort on it.
type GrowthError struct {
	Pending   int // bytes already queued
	Requested int // size of the rejected write
	Limit     int // configured maximum capacity
}

func (e *GrowthError) Error() string {
	return fmt.Sprintf("queue: cannot enqueue %d bytes with %d pending, capacity limit %d",
		e.Requested, e.Pending, e.Limit)
}

// Is makes errors.Is(err, ErrGrowth) true for any *GrowthError.
func (e *GrowthError) Is(target error) bool {
	return target == ErrGrowth
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "queue: ") {
		format = "queue: " + format
	}
	return fmt.Errorf(format, args...)
}
