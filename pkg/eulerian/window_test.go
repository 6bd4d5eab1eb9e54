package eulerian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalWindowFillsToCapacity(t *testing.T) {
	w := newSignalWindow(4)

	for i := 0; i < 3; i++ {
		w.Push(float64(i))
		assert.False(t, w.Full(), "window must not be full at %d samples", i+1)
	}
	w.Push(3)
	assert.True(t, w.Full())
	assert.Equal(t, []float64{0, 1, 2, 3}, w.Ordered())
}

func TestSignalWindowEvictsOldest(t *testing.T) {
	w := newSignalWindow(3)
	for i := 1; i <= 5; i++ {
		w.Push(float64(i))
	}
	assert.True(t, w.Full())
	assert.Equal(t, []float64{3, 4, 5}, w.Ordered())
	assert.Equal(t, 3, w.Len())
}

func TestSignalWindowReset(t *testing.T) {
	w := newSignalWindow(2)
	w.Push(1)
	w.Push(2)
	w.Reset()
	assert.False(t, w.Full())
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 2, w.Cap())
}
