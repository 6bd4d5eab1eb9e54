// Package fps provides a rolling frames-per-second counter for video loops.
package fps

import (
	"sync"
	"time"
)

// Counter measures throughput over a sliding window of recent ticks.
// Safe for concurrent use.
type Counter struct {
	mu     sync.Mutex
	window time.Duration
	ticks  []time.Time
	now    func() time.Time
}

// New returns a counter averaging over the given window. A zero or
// negative window defaults to one second.
func New(window time.Duration) *Counter {
	if window <= 0 {
		window = time.Second
	}
	return &Counter{window: window, now: time.Now}
}

// Tick records a frame at the current time.
func (c *Counter) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.ticks = append(c.ticks, now)
	c.prune(now)
}

// FPS returns the frame rate over the window, zero until at least two
// frames have been recorded.
func (c *Counter) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	if len(c.ticks) < 2 {
		return 0
	}
	span := c.ticks[len(c.ticks)-1].Sub(c.ticks[0]).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(len(c.ticks)-1) / span
}

// Reset clears all recorded ticks.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = c.ticks[:0]
}

func (c *Counter) prune(now time.Time) {
	cutoff := now.Add(-c.window)
	i := 0
	for i < len(c.ticks) && c.ticks[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		c.ticks = append(c.ticks[:0], c.ticks[i:]...)
	}
}
