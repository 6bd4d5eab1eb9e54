// Package eulerian implements real-time Eulerian video magnification with
// heart-rate extraction.
//
// A Processor consumes one color frame per call, amplifies sub-visible
// periodic color changes inside a region of interest, and estimates the
// dominant pulse frequency from the filtered signal. The temporal filter is
// a causal two-pole IIR, so memory use is constant regardless of how long
// the stream runs.
package eulerian

// Config holds the magnification parameters. Changing any of these requires
// a call to Processor.Configure, which resets the temporal filter state.
type Config struct {
	// Amplification is the gain applied to the filtered band.
	Amplification float64

	// LowFreq and HighFreq bound the pass band in Hz.
	// The defaults cover 48-120 bpm.
	LowFreq  float64
	HighFreq float64

	// PyramidLevels is the number of 2x downsampling steps. The temporal
	// filter runs on the coarsest level only.
	PyramidLevels int

	// FrameRate is the nominal capture rate in frames per second. It
	// parameterizes the IIR coefficients and the signal window capacity;
	// per-frame timing still follows wall-clock dt.
	FrameRate float64

	// ChromaAttenuation scales the two chroma channels of the magnified
	// crop. Values below 1 dampen color artifacts from amplification.
	ChromaAttenuation float64

	// ROIFracW and ROIFracH size the centered fallback region as fractions
	// of the frame dimensions.
	ROIFracW float64
	ROIFracH float64

	// RequireFace suppresses measurement when no face box has been supplied
	// for more than StabilityParams.FaceHoldFrames consecutive frames.
	RequireFace bool

	// MirrorFlip mirrors the frame horizontally before processing.
	MirrorFlip bool
}

// DefaultConfig returns the recommended magnification parameters.
func DefaultConfig() Config {
	return Config{
		Amplification:     30.0,
		LowFreq:           0.8, // 48 bpm
		HighFreq:          2.0, // 120 bpm
		PyramidLevels:     4,
		FrameRate:         30.0,
		ChromaAttenuation: 0.7,
		ROIFracW:          0.35,
		ROIFracH:          0.35,
		RequireFace:       false,
		MirrorFlip:        true,
	}
}

// Validate checks the configuration and returns the first violation found.
func (c Config) Validate() error {
	if c.LowFreq >= c.HighFreq {
		return ErrInvalidBand
	}
	if c.Amplification <= 0 {
		return ErrInvalidAmplification
	}
	if c.PyramidLevels <= 0 {
		return ErrInvalidLevels
	}
	if c.FrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	return nil
}

// StabilityParams tunes the measurement gating and the read lock.
type StabilityParams struct {
	// StableSecs is how long the scene must stay below the motion
	// threshold before a reading is locked.
	StableSecs float64

	// LockHoldSecs is how long a locked reading is held before re-arming.
	LockHoldSecs float64

	// MotionThreshold is the normalized inter-frame ROI difference above
	// which the scene counts as moving.
	MotionThreshold float64

	// EMABeta is the exponential smoothing weight on the previous bpm
	// estimate (0-1, higher = smoother). Clamped to 0.99 when applied.
	EMABeta float64

	// WindowSecs is the signal window duration; window capacity is
	// WindowSecs * FrameRate samples.
	WindowSecs float64

	// FaceHoldFrames is how many consecutive frames without a face box are
	// tolerated before measurement is suppressed (face-gated mode only).
	FaceHoldFrames int
}

// DefaultStabilityParams returns the recommended gating parameters.
func DefaultStabilityParams() StabilityParams {
	return StabilityParams{
		StableSecs:      2.0,
		LockHoldSecs:    5.0,
		MotionThreshold: 0.008,
		EMABeta:         0.7,
		WindowSecs:      12.0,
		FaceHoldFrames:  10,
	}
}
