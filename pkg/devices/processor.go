package devices

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"github.com/purevision/purevision/pkg/device"
	"github.com/purevision/purevision/pkg/detection"
	"github.com/purevision/purevision/pkg/eulerian"
)

// PulseProcessor is a FrameProcessor wrapping the Eulerian magnification
// pipeline, optionally fed by a face detector. It keeps the latest result
// for status reporting.
type PulseProcessor struct {
	id     string
	cfg    eulerian.Config
	params eulerian.StabilityParams

	proc     *eulerian.Processor
	detector detection.Detector // optional; owned by this device

	status device.Status
	log    *slog.Logger

	mu        sync.RWMutex
	last      eulerian.Result // Image field always zero; never retained
	received  uint64
	processed uint64

	// OnResult, when set, is called after each processed frame with a
	// copy of the result (without the image). Used by the monitor server.
	OnResult func(eulerian.Result)
}

// NewPulseProcessor creates the processing device. The detector may be nil,
// in which case no face box is ever supplied.
func NewPulseProcessor(id string, cfg eulerian.Config, params eulerian.StabilityParams,
	detector detection.Detector, logger *slog.Logger) *PulseProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PulseProcessor{
		id:       id,
		cfg:      cfg,
		params:   params,
		detector: detector,
		status:   device.StatusUninitialized,
		log:      logger,
	}
}

func (p *PulseProcessor) ID() string            { return p.id }
func (p *PulseProcessor) Kind() device.Kind     { return device.KindProcessor }
func (p *PulseProcessor) Status() device.Status { return p.status }

// Initialize validates the configuration and builds the pipeline.
func (p *PulseProcessor) Initialize() error {
	p.status = device.StatusInitializing
	proc, err := eulerian.New(p.cfg, p.params, p.log)
	if err != nil {
		p.status = device.StatusError
		return err
	}
	p.proc = proc
	p.status = device.StatusReady
	p.log.Info("pulse processor initialized",
		"amplification", p.cfg.Amplification,
		"band_hz", []float64{p.cfg.LowFreq, p.cfg.HighFreq},
		"levels", p.cfg.PyramidLevels,
		"face_gated", p.cfg.RequireFace && p.detector != nil)
	return nil
}

// Start marks the processor running.
func (p *PulseProcessor) Start() error {
	if p.proc == nil {
		return fmt.Errorf("devices: processor %s not initialized", p.id)
	}
	p.status = device.StatusRunning
	return nil
}

// Stop marks the processor ready.
func (p *PulseProcessor) Stop() error {
	p.status = device.StatusReady
	return nil
}

// Cleanup releases pipeline and detector state.
func (p *PulseProcessor) Cleanup() error {
	p.status = device.StatusDisconnected
	if p.proc != nil {
		p.proc.Close()
		p.proc = nil
	}
	if p.detector != nil {
		return p.detector.Close()
	}
	return nil
}

// ProcessFrame runs detection (if configured) and the magnification
// pipeline on one frame. The returned annotated frame is owned by the
// caller.
func (p *PulseProcessor) ProcessFrame(frame gocv.Mat) (gocv.Mat, error) {
	if p.proc == nil || p.status != device.StatusRunning {
		return gocv.NewMat(), fmt.Errorf("devices: processor %s not running", p.id)
	}

	p.mu.Lock()
	p.received++
	p.mu.Unlock()

	var faceBox *image.Rectangle
	if p.detector != nil {
		faces, err := p.detector.Detect(frame)
		if err != nil {
			p.log.Debug("face detection failed", "error", err)
		} else {
			faceBox = detection.SelectLargest(faces)
		}
	}

	res, err := p.proc.Process(frame, faceBox)
	if err != nil {
		return gocv.NewMat(), err
	}

	snapshot := res
	snapshot.Image = gocv.Mat{}
	p.mu.Lock()
	p.processed++
	p.last = snapshot
	cb := p.OnResult
	p.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}

	return res.Image, nil
}

// LastResult returns the most recent result, without the image.
func (p *PulseProcessor) LastResult() eulerian.Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Pipeline exposes the underlying processor for reconfiguration.
func (p *PulseProcessor) Pipeline() *eulerian.Processor {
	return p.proc
}

// Info reports processor state including the latest reading.
func (p *PulseProcessor) Info() device.Info {
	p.mu.RLock()
	defer p.mu.RUnlock()

	details := map[string]interface{}{
		"amplification":    p.cfg.Amplification,
		"frequency_range":  fmt.Sprintf("%.1f-%.1f Hz", p.cfg.LowFreq, p.cfg.HighFreq),
		"pyramid_levels":   p.cfg.PyramidLevels,
		"frames_received":  p.received,
		"frames_processed": p.processed,
		"locked":           p.last.Locked,
	}
	if p.last.BPMSmoothed != nil {
		details["bpm_smoothed"] = *p.last.BPMSmoothed
	}
	if p.last.BPMLocked != nil {
		details["bpm_locked"] = *p.last.BPMLocked
	}
	return device.Info{
		ID:      p.id,
		Kind:    device.KindProcessor,
		Status:  p.status,
		Details: details,
	}
}
