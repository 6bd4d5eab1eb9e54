package eulerian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

// floatMat returns a float32 BGR Mat filled with a single value.
func floatMat(rows, cols int, value float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0), rows, cols, gocv.MatTypeCV32FC3)
}

func TestFilterSeedsToFirstInput(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)
	defer f.Reset()

	x := floatMat(4, 4, 0.5)
	defer x.Close()

	// Both leaks seed to the input, so the first band is exactly zero.
	band := f.Apply(x)
	defer band.Close()
	assert.InDelta(t, 0.0, band.Mean().Val1, 1e-6)
}

func TestFilterConstantInputConvergesToZero(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)
	defer f.Reset()

	x := floatMat(4, 4, 0.5)
	defer x.Close()

	// Constant input drives both leaks to the input value; the band stays
	// at zero throughout.
	for i := 0; i < 60; i++ {
		band := f.Apply(x)
		assert.InDelta(t, 0.0, band.Mean().Val1, 1e-5)
		band.Close()
	}
	assert.InDelta(t, 0.5, f.low.Mean().Val1, 1e-5)
	assert.InDelta(t, 0.5, f.high.Mean().Val1, 1e-5)
}

func TestFilterStepResponse(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)
	defer f.Reset()

	low := floatMat(4, 4, 0.2)
	defer low.Close()
	high := floatMat(4, 4, 0.8)
	defer high.Close()

	f.Apply(low).Close()

	// A step change passes through the band: the fast leak (upper cutoff)
	// tracks the new value sooner than the slow one.
	band := f.Apply(high)
	defer band.Close()
	assert.Greater(t, band.Mean().Val1, 0.0)
}

func TestFilterDecayCoefficients(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)
	assert.InDelta(t, math.Exp(-2*math.Pi*0.8/30), f.decayLow, 1e-12)
	assert.InDelta(t, math.Exp(-2*math.Pi*2.0/30), f.decayHigh, 1e-12)
}

func TestFilterReseedsOnShapeChange(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)
	defer f.Reset()

	a := floatMat(4, 4, 0.2)
	defer a.Close()
	b := floatMat(8, 8, 0.9)
	defer b.Close()

	f.Apply(a).Close()

	// A resized input reseeds the state rather than mixing shapes.
	band := f.Apply(b)
	defer band.Close()
	assert.Equal(t, 8, band.Rows())
	assert.InDelta(t, 0.0, band.Mean().Val1, 1e-6)
}

func TestFilterResetReseeds(t *testing.T) {
	f := newBandpassFilter(0.8, 2.0, 30)

	a := floatMat(4, 4, 0.2)
	defer a.Close()
	b := floatMat(4, 4, 0.9)
	defer b.Close()

	f.Apply(a).Close()
	f.Reset()

	band := f.Apply(b)
	defer band.Close()
	assert.InDelta(t, 0.0, band.Mean().Val1, 1e-6)
}
