package fps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedClock advances by step on every call.
type fixedClock struct {
	t    time.Time
	step time.Duration
}

func (f *fixedClock) now() time.Time {
	f.t = f.t.Add(f.step)
	return f.t
}

func TestEmptyCounterReportsZero(t *testing.T) {
	c := New(time.Second)
	assert.Equal(t, 0.0, c.FPS())

	c.Tick()
	assert.Equal(t, 0.0, c.FPS(), "single tick is not a rate")
}

func TestSteadyRate(t *testing.T) {
	c := New(time.Second)
	clk := &fixedClock{t: time.Unix(100, 0), step: 33 * time.Millisecond}
	c.now = clk.now

	for i := 0; i < 20; i++ {
		c.Tick()
	}
	// FPS() itself advances the clock once before measuring.
	assert.InDelta(t, 1.0/0.033, c.FPS(), 0.5)
}

func TestOldTicksExpire(t *testing.T) {
	c := New(100 * time.Millisecond)
	clk := &fixedClock{t: time.Unix(100, 0), step: 60 * time.Millisecond}
	c.now = clk.now

	c.Tick()
	c.Tick()
	c.Tick() // first tick now 120ms old, outside the window

	c.mu.Lock()
	n := len(c.ticks)
	c.mu.Unlock()
	assert.Equal(t, 2, n)
}

func TestReset(t *testing.T) {
	c := New(time.Second)
	c.Tick()
	c.Tick()
	c.Reset()
	assert.Equal(t, 0.0, c.FPS())
}

func TestZeroWindowDefaults(t *testing.T) {
	c := New(0)
	assert.Equal(t, time.Second, c.window)
}
