package eulerian

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// rateEstimator accumulates the per-frame band signal and estimates the
// dominant frequency inside the configured band once the window is full.
// The bpm estimate is exponentially smoothed.
type rateEstimator struct {
	window    *signalWindow
	frameRate float64
	lowFreq   float64
	highFreq  float64
	beta      float64

	smoothed    float64
	hasEstimate bool
}

func newRateEstimator(cfg Config, params StabilityParams) *rateEstimator {
	return &rateEstimator{
		window:    newSignalWindow(int(params.WindowSecs * cfg.FrameRate)),
		frameRate: cfg.FrameRate,
		lowFreq:   cfg.LowFreq,
		highFreq:  cfg.HighFreq,
		beta:      clampBeta(params.EMABeta),
	}
}

// Observe appends one sample and, when the window is full, refreshes the
// smoothed estimate from the spectral peak. An empty band mask leaves the
// previous estimate untouched.
func (e *rateEstimator) Observe(sample float64) {
	e.window.Push(sample)
	if !e.window.Full() {
		return
	}

	sig := e.window.Ordered()

	// Detrend: remove the DC component before the transform.
	mean := 0.0
	for _, v := range sig {
		mean += v
	}
	mean /= float64(len(sig))
	for i := range sig {
		sig[i] -= mean
	}

	spectrum := fft.FFTReal(sig)
	n := len(sig)

	bestBin := -1
	bestMag := 0.0
	for k := 1; k <= n/2; k++ {
		freq := float64(k) * e.frameRate / float64(n)
		if freq < e.lowFreq || freq > e.highFreq {
			continue
		}
		mag := cmplx.Abs(spectrum[k])
		if bestBin < 0 || mag > bestMag {
			bestBin = k
			bestMag = mag
		}
	}
	if bestBin < 0 {
		// Band falls outside the representable frequencies for this
		// window length and frame rate.
		return
	}

	bpm := float64(bestBin) * e.frameRate / float64(n) * 60.0
	if !e.hasEstimate {
		e.smoothed = bpm
		e.hasEstimate = true
	} else {
		e.smoothed = e.beta*e.smoothed + (1-e.beta)*bpm
	}
}

// Estimate returns the smoothed bpm, if one has been produced yet.
func (e *rateEstimator) Estimate() (float64, bool) {
	return e.smoothed, e.hasEstimate
}

// WindowLen returns the number of samples currently buffered.
func (e *rateEstimator) WindowLen() int {
	return e.window.Len()
}

// Reconfigure applies new parameters. The window is rebuilt only when its
// capacity changes; the smoothed estimate survives reconfiguration.
func (e *rateEstimator) Reconfigure(cfg Config, params StabilityParams) {
	e.frameRate = cfg.FrameRate
	e.lowFreq = cfg.LowFreq
	e.highFreq = cfg.HighFreq
	e.beta = clampBeta(params.EMABeta)

	capacity := int(params.WindowSecs * cfg.FrameRate)
	if capacity != e.window.Cap() {
		e.window = newSignalWindow(capacity)
	}
}

// Reset empties the window and clears the smoothed estimate.
func (e *rateEstimator) Reset() {
	e.window.Reset()
	e.smoothed = 0
	e.hasEstimate = false
}

func clampBeta(beta float64) float64 {
	if beta < 0 {
		return 0
	}
	if beta > 0.99 {
		return 0.99
	}
	return beta
}
