// FILE: lixenwraith/qlog/example/raw/main.go
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/qlog/formatter"
	"github.com/lixenwraith/qlog/queue"
	"github.com/lixenwraith/qlog/sanitizer"
	"github.com/lixenwraith/qlog/sink"
)

// TestPayload defines a struct for testing complex type serialization.
type TestPayload struct {
	RequestID uint64
	User      string
	Metrics   map[string]float64
}

func main() {
	fmt.Println("--- Raw Queue Test ---")

	byteRecord := "binary\ndata\twith\x00null"
	structRecord := TestPayload{
		RequestID: 9223372036854775807,
		User:      "test_user",
		Metrics: map[string]float64{
			"latency_ms":  15.7,
			"cpu_percent": 88.2,
		},
	}

	// A queue.Writer is an io.Writer; anything can be written through it
	// without the record layer.
	w, err := queue.New(sink.Console(os.Stdout), queue.WithCapacity(256))
	if err != nil {
		fmt.Printf("Failed to create queue: %v\n", err)
		return
	}

	fmt.Fprintf(w, "[1] plain fprintf through the queue%s", queue.Newline)

	// Several writes under one lock come out contiguous
	lk := w.Lock()
	for _, policy := range []sanitizer.PolicyPreset{sanitizer.PolicyRaw, sanitizer.PolicyTxt, sanitizer.PolicyEscape, sanitizer.PolicyFlat} {
		lk.WriteString(fmt.Sprintf("[2] %-6s -> ", policy))
		lk.WriteString(sanitizer.ForPolicy(policy).Sanitize(byteRecord))
		lk.WriteNewline()
	}
	lk.Unlock()

	f := formatter.New()
	fmt.Fprintf(w, "[3] args  -> %s%s", f.Args("payload", structRecord), queue.Newline)
	fmt.Fprintf(w, "[4] dump  ->%s%s", queue.Newline, f.Dump(structRecord))

	w.Close()
	w.Wait()

	if err := w.Err(); err != nil {
		fmt.Printf("Sink error: %v\n", err)
	}
	s := w.Stats()
	fmt.Printf("\nQueue stats: cap=%d grows=%d enqueued=%d drained=%d\n", s.Cap, s.Grows, s.Enqueued, s.Drained)
}
