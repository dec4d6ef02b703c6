// FILE: lixenwraith/qlog/queue/ring_test.go
package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingEmptyAndFull(t *testing.T) {
	rb := NewRing(8)

	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 7, rb.Available())

	// One slot stays free
	require.True(t, rb.Append([]byte("1234567")))
	assert.Equal(t, 7, rb.Len())
	assert.Equal(t, 0, rb.Available())
	assert.False(t, rb.Append([]byte("8")))
	assert.Less(t, rb.Len(), rb.Cap())
}

func TestRingWrapAround(t *testing.T) {
	rb := NewRing(8)
	dst := make([]byte, 8)

	require.True(t, rb.Append([]byte("abcdef")))
	n := rb.Consume(dst[:4])
	assert.Equal(t, "abcd", string(dst[:n]))

	// Cursor at 6, writing 5 bytes wraps past the physical end
	require.True(t, rb.Append([]byte("ghijk")))
	assert.Equal(t, 7, rb.Len())

	first, second := rb.Spans()
	assert.Equal(t, "efgh", string(first))
	assert.Equal(t, "ijk", string(second))

	n = rb.Consume(dst)
	assert.Equal(t, "efghijk", string(dst[:n]))
	assert.Equal(t, 0, rb.Len())
}

func TestRingPartialConsume(t *testing.T) {
	rb := NewRing(8)
	dst := make([]byte, 3)

	require.True(t, rb.Append([]byte("hello")))
	n := rb.Consume(dst)
	assert.Equal(t, "hel", string(dst[:n]))
	assert.Equal(t, 2, rb.Len())

	n = rb.Consume(dst)
	assert.Equal(t, "lo", string(dst[:n]))
	assert.Equal(t, 0, rb.Consume(dst))
}

func TestRingLenNeverReachesCap(t *testing.T) {
	rb := NewRing(5)
	dst := make([]byte, 5)
	for i := 0; i < 50; i++ {
		rb.Append([]byte{byte(i)})
		rb.Append([]byte{byte(i), byte(i)})
		assert.Less(t, rb.Len(), rb.Cap())
		if i%3 == 0 {
			rb.Consume(dst[:2])
		}
		assert.Equal(t, rb.Len() == 0, rb.r == rb.w)
	}
}

func TestWriterGrowLinearizes(t *testing.T) {
	w := &Writer{ring: NewRing(8)}
	dst := make([]byte, 8)

	// Place pending bytes across the wrap point
	_, err := w.writeUnlocked([]byte("xxxxxab"))
	require.NoError(t, err)
	w.ring.Consume(dst[:5])
	_, err = w.writeUnlocked([]byte("cdef"))
	require.NoError(t, err)
	require.Equal(t, 6, w.ring.Len())

	_, err = w.writeUnlocked([]byte("ghijk"))
	require.NoError(t, err)

	assert.Equal(t, 16, w.ring.Cap())
	assert.Equal(t, 11, w.ring.Len())
	assert.Equal(t, 0, w.ring.r)
	assert.Equal(t, 11, w.ring.w)

	first, second := w.ring.Spans()
	assert.Equal(t, "abcdefghijk", string(first))
	assert.Nil(t, second)
	assert.Equal(t, uint64(1), w.grows)
}

func TestWriterGrowLimit(t *testing.T) {
	w := &Writer{ring: NewRing(8), maxCapacity: 12}

	_, err := w.writeUnlocked([]byte("0123456"))
	require.NoError(t, err)

	// Doubling would overshoot, the ceiling still fits
	_, err = w.writeUnlocked([]byte("789"))
	require.NoError(t, err)
	assert.Equal(t, 12, w.ring.Cap())

	_, err = w.writeUnlocked([]byte("abcdefghij"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGrowth)

	var gerr *GrowthError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 10, gerr.Pending)
	assert.Equal(t, 10, gerr.Requested)
	assert.Equal(t, 12, gerr.Limit)

	// Rejected bytes are not enqueued
	assert.Equal(t, 10, w.ring.Len())
}
