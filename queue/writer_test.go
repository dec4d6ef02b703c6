// FILE: lixenwraith/qlog/queue/writer_test.go
package queue_test

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/qlog/queue"
	"github.com/lixenwraith/qlog/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestWriter creates a writer over a memory sink
func createTestWriter(t *testing.T, opts ...queue.Option) (*queue.Writer, *sink.Memory) {
	t.Helper()
	mem := sink.NewMemory()
	w, err := queue.New(mem, opts...)
	require.NoError(t, err)
	return w, mem
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		sink      queue.Sink
		opts      []queue.Option
		wantError string
	}{
		{name: "nil sink", sink: nil, wantError: "sink cannot be nil"},
		{name: "capacity too small", sink: sink.NewMemory(), opts: []queue.Option{queue.WithCapacity(1)}, wantError: "capacity must be at least"},
		{name: "zero scratch", sink: sink.NewMemory(), opts: []queue.Option{queue.WithScratchSize(0)}, wantError: "scratch size must be positive"},
		{name: "max below initial", sink: sink.NewMemory(), opts: []queue.Option{queue.WithCapacity(64), queue.WithMaxCapacity(32)}, wantError: "max capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := queue.New(tt.sink, tt.opts...)
			assert.Nil(t, w)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w, mem := createTestWriter(t)

	var want bytes.Buffer
	for i := 0; i < 1000; i++ {
		line := fmt.Sprintf("record %d %s", i, strings.Repeat("x", i%37))
		want.WriteString(line)
		n, err := w.WriteString(line)
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	w.Close()
	w.Wait()

	assert.Equal(t, want.String(), mem.String())
	assert.Equal(t, 1, mem.Closes())
	assert.NoError(t, w.Err())
	w.Free()
}

func TestWriterGrowthWithinOneLock(t *testing.T) {
	w, mem := createTestWriter(t, queue.WithCapacity(8))

	l := w.Lock()
	_, err := l.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = l.Write([]byte("defgh"))
	require.NoError(t, err)
	l.Unlock()

	w.Close()
	w.Wait()

	assert.Equal(t, "abcdefgh", mem.String())
	assert.GreaterOrEqual(t, w.Cap(), 10)
	w.Free()
}

func TestWriterGrowthPreservesPending(t *testing.T) {
	w, mem := createTestWriter(t, queue.WithCapacity(8))
	gate := mem.Gate()

	// Park the drain goroutine inside the sink
	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return w.Len() == 0 }, time.Second, time.Millisecond)

	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 8, w.Cap())

	_, err = w.Write([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, 8, w.Len())
	assert.GreaterOrEqual(t, w.Cap(), 10)
	assert.Equal(t, uint64(1), w.Stats().Grows)

	close(gate)
	w.Close()
	w.Wait()

	assert.Equal(t, "xabcdefgh", mem.String())
	w.Free()
}

func TestWriterCapacityNeverShrinks(t *testing.T) {
	w, _ := createTestWriter(t, queue.WithCapacity(4))

	prev := w.Cap()
	for i := 1; i < 200; i++ {
		_, err := w.Write(bytes.Repeat([]byte{'z'}, i%50))
		require.NoError(t, err)
		c := w.Cap()
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}

	w.Wait()
	w.Free()
}

func TestWriterScratchBatching(t *testing.T) {
	w, mem := createTestWriter(t, queue.WithScratchSize(4))

	_, err := w.WriteString("0123456789")
	require.NoError(t, err)
	w.Close()
	w.Wait()

	assert.Equal(t, "0123456789", mem.String())
	assert.GreaterOrEqual(t, mem.Writes(), 3)
	assert.Equal(t, mem.Writes(), mem.Syncs())
	assert.Equal(t, mem.Writes(), mem.Flushes())
	w.Free()
}

func TestWriterConcurrentProducers(t *testing.T) {
	w, mem := createTestWriter(t, queue.WithCapacity(16))

	const producers = 16
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				l := w.Lock()
				_, _ = l.WriteString("p" + strconv.Itoa(id))
				_, _ = l.WriteString(":" + strconv.Itoa(i))
				_ = l.WriteNewline()
				l.Unlock()
			}
		}(p)
	}
	wg.Wait()
	w.Close()
	w.Wait()

	lines := strings.Split(strings.TrimSuffix(mem.String(), queue.Newline), queue.Newline)
	require.Len(t, lines, producers*perProducer)

	next := make(map[string]int)
	for _, line := range lines {
		id, seq, ok := strings.Cut(line, ":")
		require.True(t, ok, "interleaved line %q", line)
		n, err := strconv.Atoi(seq)
		require.NoError(t, err)
		assert.Equal(t, next[id], n, "out of order for %s", id)
		next[id] = n + 1
	}
	w.Free()
}

func TestWriterSinkErrorIsSticky(t *testing.T) {
	w, mem := createTestWriter(t)
	errBoom := errors.New("disk full")

	mem.FailWrites(errBoom)
	_, err := w.WriteString("lost")
	require.NoError(t, err, "producers never see sink errors")

	require.Eventually(t, func() bool { return w.Err() != nil }, time.Second, time.Millisecond)
	assert.ErrorIs(t, w.Err(), errBoom)

	mem.FailWrites(nil)
	_, err = w.WriteString("kept")
	require.NoError(t, err)
	w.Close()
	w.Wait()

	// Failed bytes are not retried and success does not clear the error
	assert.Equal(t, "kept", mem.String())
	assert.ErrorIs(t, w.Err(), errBoom)
	assert.GreaterOrEqual(t, w.Stats().Failures, uint64(1))
	w.Free()
}

func TestWriterLatestErrorWins(t *testing.T) {
	w, mem := createTestWriter(t)
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	mem.FailSync(errFirst)
	_, _ = w.WriteString("a")
	require.Eventually(t, func() bool { return errors.Is(w.Err(), errFirst) }, time.Second, time.Millisecond)

	mem.FailSync(nil)
	mem.FailClose(errSecond)
	w.Close()
	w.Wait()

	assert.ErrorIs(t, w.Err(), errSecond)
	assert.Equal(t, "a", mem.String())
	w.Free()
}

func TestWriterShutdown(t *testing.T) {
	t.Run("close then wait closes sink once", func(t *testing.T) {
		w, mem := createTestWriter(t)
		_, _ = w.WriteString("data")
		w.Close()
		w.Close()
		w.Wait()
		w.Wait()

		assert.Equal(t, "data", mem.String())
		assert.Equal(t, 1, mem.Closes())
		w.Free()
	})

	t.Run("wait alone drains without closing", func(t *testing.T) {
		w, mem := createTestWriter(t)
		_, _ = w.WriteString("data")
		w.Wait()

		assert.Equal(t, "data", mem.String())
		assert.Equal(t, 0, mem.Closes())

		// Exit already requested, close has no effect
		w.Close()
		assert.Equal(t, 0, mem.Closes())
		w.Free()
	})

	t.Run("free without wait detaches and drains", func(t *testing.T) {
		w, mem := createTestWriter(t)
		_, _ = w.WriteString("detached")
		w.Close()
		w.Free()

		require.Eventually(t, func() bool { return mem.Closes() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, "detached", mem.String())
	})
}

func TestWriterMisusePanics(t *testing.T) {
	t.Run("write after wait", func(t *testing.T) {
		w, _ := createTestWriter(t)
		w.Wait()
		assert.Panics(t, func() { _, _ = w.WriteString("late") })
		w.Free()
	})

	t.Run("use after free", func(t *testing.T) {
		w, _ := createTestWriter(t)
		w.Wait()
		w.Free()
		assert.Panics(t, func() { _, _ = w.WriteString("late") })
		assert.Panics(t, func() { w.Close() })
		assert.Panics(t, func() { w.Wait() })
		assert.Panics(t, func() { w.Free() })
		assert.Panics(t, func() { _ = w.Err() })
	})

	t.Run("err after free releases the mutex once", func(t *testing.T) {
		w, _ := createTestWriter(t)
		w.Wait()
		w.Free()
		assert.PanicsWithValue(t, "queue: Err called after Free", func() { _ = w.Err() })
		assert.PanicsWithValue(t, "queue: Err called after Free", func() { _ = w.Err() })
		// The mutex is free again, so unguarded accessors still work
		assert.NotPanics(t, func() { _ = w.Stats() })
		assert.Zero(t, w.Len())
	})

	t.Run("locked token after unlock", func(t *testing.T) {
		w, _ := createTestWriter(t)
		l := w.Lock()
		l.Unlock()
		assert.Panics(t, func() { _, _ = l.WriteString("late") })
		assert.Panics(t, func() { l.Unlock() })
		w.Wait()
		w.Free()
	})
}

func TestWriterGrowthCeiling(t *testing.T) {
	w, mem := createTestWriter(t, queue.WithCapacity(8), queue.WithMaxCapacity(16))
	gate := mem.Gate()

	_, err := w.WriteString("x")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return w.Len() == 0 }, time.Second, time.Millisecond)

	_, err = w.WriteString("0123456789")
	require.NoError(t, err)

	_, err = w.WriteString("0123456789")
	assert.ErrorIs(t, err, queue.ErrGrowth)

	close(gate)
	w.Wait()
	assert.Equal(t, "x0123456789", mem.String())
	w.Free()
}
