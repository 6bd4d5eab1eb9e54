package devices

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/purevision/purevision/pkg/device"
)

// Display is a FrameSink backed by an OpenCV window.
type Display struct {
	id         string
	windowName string
	window     *gocv.Window
	status     device.Status
	shown      uint64
	log        *slog.Logger
}

// NewDisplay creates a display device. The window is opened on Start.
func NewDisplay(id, windowName string, logger *slog.Logger) *Display {
	if logger == nil {
		logger = slog.Default()
	}
	if windowName == "" {
		windowName = "purevision"
	}
	return &Display{
		id:         id,
		windowName: windowName,
		status:     device.StatusUninitialized,
		log:        logger,
	}
}

func (d *Display) ID() string            { return d.id }
func (d *Display) Kind() device.Kind     { return device.KindDisplay }
func (d *Display) Status() device.Status { return d.status }

// Initialize has nothing to acquire; window creation is deferred to Start
// so headless runs never touch the GUI stack.
func (d *Display) Initialize() error {
	d.status = device.StatusReady
	return nil
}

// Start opens the preview window.
func (d *Display) Start() error {
	d.window = gocv.NewWindow(d.windowName)
	d.status = device.StatusRunning
	return nil
}

// Stop closes the window.
func (d *Display) Stop() error {
	d.status = device.StatusReady
	if d.window != nil {
		err := d.window.Close()
		d.window = nil
		return err
	}
	return nil
}

// Cleanup closes any remaining window.
func (d *Display) Cleanup() error {
	d.status = device.StatusDisconnected
	if d.window != nil {
		err := d.window.Close()
		d.window = nil
		return err
	}
	return nil
}

// ShowFrame renders one frame and pumps the GUI event loop.
func (d *Display) ShowFrame(frame gocv.Mat) error {
	if d.window == nil || d.status != device.StatusRunning {
		return fmt.Errorf("devices: display %s not running", d.id)
	}
	d.window.IMShow(frame)
	d.window.WaitKey(1)
	d.shown++
	return nil
}

// Info reports the display state.
func (d *Display) Info() device.Info {
	return device.Info{
		ID:     d.id,
		Kind:   device.KindDisplay,
		Status: d.status,
		Details: map[string]interface{}{
			"window":       d.windowName,
			"frames_shown": d.shown,
		},
	}
}
