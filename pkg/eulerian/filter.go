package eulerian

import (
	"math"

	"gocv.io/x/gocv"
)

// bandpassFilter is a two-pole causal IIR band-pass applied to the coarsest
// pyramid level. Two independent exponential leaks track a low-pass at the
// upper cutoff and a high-pass at the lower cutoff; the band output is their
// difference. Cost is O(1) per frame with no frame history retained.
type bandpassFilter struct {
	// Per-frame decay factors: exp(-2*pi*f/fps) for each cutoff.
	decayLow  float64 // lower cutoff, drives the high-pass leak
	decayHigh float64 // upper cutoff, drives the low-pass leak

	low    gocv.Mat // low-pass state at the upper cutoff
	high   gocv.Mat // high-pass state at the lower cutoff
	seeded bool
}

func newBandpassFilter(lowFreq, highFreq, frameRate float64) *bandpassFilter {
	return &bandpassFilter{
		decayLow:  math.Exp(-2 * math.Pi * lowFreq / frameRate),
		decayHigh: math.Exp(-2 * math.Pi * highFreq / frameRate),
	}
}

// Apply advances both leaks with the float32 input and returns the
// band-passed array of identical shape. The caller owns the returned Mat.
// State is seeded from the first input after creation or Reset, and reseeded
// if the input shape changes (the ROI was resized).
func (f *bandpassFilter) Apply(x gocv.Mat) gocv.Mat {
	if f.seeded && (f.low.Rows() != x.Rows() || f.low.Cols() != x.Cols()) {
		f.Reset()
	}
	if !f.seeded {
		f.low = x.Clone()
		f.high = x.Clone()
		f.seeded = true
	}

	gocv.AddWeighted(f.low, f.decayHigh, x, 1-f.decayHigh, 0, &f.low)
	gocv.AddWeighted(f.high, f.decayLow, x, 1-f.decayLow, 0, &f.high)

	band := gocv.NewMat()
	gocv.Subtract(f.low, f.high, &band)
	return band
}

// Reset discards the filter state; the next Apply reseeds from its input.
func (f *bandpassFilter) Reset() {
	if f.seeded {
		f.low.Close()
		f.high.Close()
		f.seeded = false
	}
}
