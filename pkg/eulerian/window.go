package eulerian

// signalWindow is a fixed-capacity ring buffer of scalar samples, one per
// measured frame. It only yields data once full.
type signalWindow struct {
	samples []float64
	head    int
	count   int
}

func newSignalWindow(capacity int) *signalWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &signalWindow{samples: make([]float64, capacity)}
}

// Push appends a sample, evicting the oldest once the window is full.
func (w *signalWindow) Push(v float64) {
	w.samples[w.head] = v
	w.head = (w.head + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
}

// Full reports whether the window holds a complete span of samples.
func (w *signalWindow) Full() bool {
	return w.count == len(w.samples)
}

// Len returns the number of samples held.
func (w *signalWindow) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *signalWindow) Cap() int {
	return len(w.samples)
}

// Ordered returns the samples oldest first. Valid only when Full.
func (w *signalWindow) Ordered() []float64 {
	out := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.samples[(w.head+i)%len(w.samples)]
	}
	return out
}

// Reset empties the window.
func (w *signalWindow) Reset() {
	w.head = 0
	w.count = 0
}
