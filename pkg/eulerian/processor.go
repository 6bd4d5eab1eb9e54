package eulerian

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Result is the outcome of processing one frame.
type Result struct {
	// Image is the annotated output frame. Owned by the caller, who must
	// Close it.
	Image gocv.Mat `json:"-"`

	// Region is the ROI analyzed on this frame, in output coordinates.
	Region image.Rectangle `json:"-"`

	// Motion is the normalized inter-frame ROI difference in [0,1].
	Motion float64 `json:"motion"`

	// Stable is true when motion is below the configured threshold.
	Stable bool `json:"stable"`

	// Suppressed is true when face gating disqualified this frame.
	Suppressed bool `json:"suppressed"`

	// BPMSmoothed is the live exponentially-smoothed estimate, nil until
	// the first spectral peak has been found.
	BPMSmoothed *float64 `json:"bpm_smoothed"`

	// BPMLocked is the frozen reading, nil unless Locked.
	BPMLocked *int `json:"bpm_locked"`

	// Locked is true while a reading is frozen.
	Locked bool `json:"locked"`
}

// Processor is a single-instance, frame-at-a-time magnification and pulse
// extraction pipeline. One call processes exactly one frame; the caller must
// not invoke Process concurrently on the same instance, and each video
// source needs its own Processor.
type Processor struct {
	mu sync.Mutex

	cfg    Config
	params StabilityParams

	selector  *roiSelector
	gate      *motionGate
	amp       *amplifier
	estimator *rateEstimator
	lock      *lockMachine

	faceMisses int
	lastTime   time.Time
	started    bool

	log *slog.Logger
	now func() time.Time
}

// New creates a Processor. Returns a configuration error if cfg is invalid.
// A nil logger falls back to slog.Default.
func New(cfg Config, params StabilityParams, logger *slog.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		params:    params,
		selector:  newROISelector(cfg.ROIFracW, cfg.ROIFracH),
		gate:      newMotionGate(params.MotionThreshold),
		amp:       newAmplifier(cfg),
		estimator: newRateEstimator(cfg, params),
		lock:      newLockMachine(params),
		log:       logger,
		now:       time.Now,
	}, nil
}

// Process runs the full pipeline on one frame: ROI selection, motion gating,
// temporal filtering in the pyramid, rate estimation and the lock state
// machine. The frame is never retained past the call. A Result is always
// returned for a non-empty frame; optional fields stay nil while no estimate
// is available.
func (p *Processor) Process(frame gocv.Mat, faceBox *image.Rectangle) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	now := p.now()
	var dt float64
	if p.started {
		dt = now.Sub(p.lastTime).Seconds()
		if dt < 1e-6 {
			dt = 1e-6
		}
	} else {
		dt = 1.0 / p.cfg.FrameRate
		p.started = true
	}
	p.lastTime = now

	out := gocv.NewMat()
	if p.cfg.MirrorFlip {
		gocv.Flip(frame, &out, 1)
	} else {
		frame.CopyTo(&out)
	}
	width, height := out.Cols(), out.Rows()

	// The face box arrives in input-frame coordinates; after a mirror flip
	// it must be reflected to keep selecting the same pixels.
	if faceBox != nil && p.cfg.MirrorFlip {
		mirrored := image.Rect(width-faceBox.Max.X, faceBox.Min.Y,
			width-faceBox.Min.X, faceBox.Max.Y)
		faceBox = &mirrored
	}

	suppressed := false
	if p.cfg.RequireFace {
		if faceBox != nil {
			p.faceMisses = 0
		} else {
			p.faceMisses++
			if p.faceMisses >= p.params.FaceHoldFrames {
				suppressed = true
			}
		}
	}

	region := p.selector.Select(width, height, faceBox)
	if region.Empty() {
		// Frame too small for even the fallback region. Nothing to
		// analyze; hand back the (possibly mirrored) frame as-is.
		p.log.Warn("degenerate region, skipping frame",
			"width", width, "height", height)
		return Result{Image: out, Suppressed: suppressed}, nil
	}

	crop := out.Region(region)
	motion, stable := p.gate.Measure(crop)

	cropF := gocv.NewMat()
	crop.ConvertToWithParams(&cropF, gocv.MatTypeCV32FC3, 1.0/255.0, 0)
	magnified, band := p.amp.Magnify(cropF)

	mag8 := gocv.NewMat()
	magnified.ConvertToWithParams(&mag8, gocv.MatTypeCV8UC3, 255.0, 0)
	mag8.CopyTo(&crop)

	// Rate measurement: mean of the green channel of the unamplified band,
	// taken only on stable, unsuppressed frames while not locked.
	if stable && !suppressed && !p.lock.Locked() {
		p.estimator.Observe(band.Mean().Val2)
	}
	estimate, hasEstimate := p.estimator.Estimate()
	p.lock.Update(now, dt, stable, suppressed, estimate, hasEstimate)

	res := Result{
		Region:     region,
		Motion:     motion,
		Stable:     stable,
		Suppressed: suppressed,
		Locked:     p.lock.Locked(),
	}
	if hasEstimate {
		v := estimate
		res.BPMSmoothed = &v
	}
	if locked, ok := p.lock.LockedValue(); ok {
		res.BPMLocked = &locked
	}

	drawOverlays(&out, res, p.cfg, p.params, p.lock.StableFor(), p.lock.Remaining(now))
	res.Image = out

	band.Close()
	magnified.Close()
	mag8.Close()
	cropF.Close()
	crop.Close()

	return res, nil
}

// Configure replaces the magnification parameters. The temporal filter state
// is invalidated and reseeds on the next frame; the smoothed bpm estimate
// survives. On a validation error the previous configuration is untouched.
func (p *Processor) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cfg = cfg
	p.selector.fracW = cfg.ROIFracW
	p.selector.fracH = cfg.ROIFracH
	p.amp.Reconfigure(cfg)
	p.estimator.Reconfigure(cfg, p.params)
	p.log.Info("processor reconfigured",
		"amplification", cfg.Amplification,
		"band_hz", []float64{cfg.LowFreq, cfg.HighFreq},
		"levels", cfg.PyramidLevels,
		"frame_rate", cfg.FrameRate)
	return nil
}

// Config returns the current magnification parameters.
func (p *Processor) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// SetManualRegion sets or clears the manual ROI rectangle. It is used only
// when no face box is supplied on a frame.
func (p *Processor) SetManualRegion(r *image.Rectangle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selector.SetManual(r)
}

// SetStabilityParams replaces the gating parameters. Current lock state and
// accumulated stable time are preserved.
func (p *Processor) SetStabilityParams(params StabilityParams) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = params
	p.gate.SetThreshold(params.MotionThreshold)
	p.lock.SetParams(params)
	p.estimator.Reconfigure(p.cfg, params)
}

// StabilityParams returns the current gating parameters.
func (p *Processor) StabilityParams() StabilityParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// RestartTracking clears the face-box smoothing state.
func (p *Processor) RestartTracking() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selector.Reset()
	p.faceMisses = 0
}

// Close releases all retained image state.
func (p *Processor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate.Close()
	p.amp.Close()
}
