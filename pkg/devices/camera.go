// Package devices contains the built-in device modules: camera capture, the
// pulse processor, the preview display and a GPIO indicator. Each implements
// the device lifecycle and registers a factory with the module registry.
package devices

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/purevision/purevision/pkg/device"
)

// CameraConfig describes a capture device.
type CameraConfig struct {
	DeviceIndex int
	Width       int
	Height      int
	FPS         float64
	FourCC      string // e.g. "MJPG"; empty leaves the driver default
}

// DefaultCameraConfig returns 720p MJPG capture on device 0.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		DeviceIndex: 0,
		Width:       1280,
		Height:      720,
		FPS:         30,
		FourCC:      "MJPG",
	}
}

// Camera is a FrameSource backed by an OpenCV video capture. If the device
// refuses the requested mode it falls back to 640x480 YUYV, matching the
// behavior of common UVC webcams.
type Camera struct {
	id     string
	cfg    CameraConfig
	cap    *gocv.VideoCapture
	status device.Status
	frames uint64
	log    *slog.Logger
}

// NewCamera creates a camera device. Nothing is opened until Initialize.
func NewCamera(id string, cfg CameraConfig, logger *slog.Logger) *Camera {
	if logger == nil {
		logger = slog.Default()
	}
	return &Camera{
		id:     id,
		cfg:    cfg,
		status: device.StatusUninitialized,
		log:    logger,
	}
}

func (c *Camera) ID() string            { return c.id }
func (c *Camera) Kind() device.Kind     { return device.KindCamera }
func (c *Camera) Status() device.Status { return c.status }

// Initialize opens the capture device and applies the configured mode.
func (c *Camera) Initialize() error {
	c.status = device.StatusInitializing

	cap, err := gocv.OpenVideoCapture(c.cfg.DeviceIndex)
	if err != nil {
		c.status = device.StatusError
		return fmt.Errorf("devices: open camera %d: %w", c.cfg.DeviceIndex, err)
	}
	if c.cfg.FourCC != "" {
		cap.Set(gocv.VideoCaptureFOURCC, cap.ToCodec(c.cfg.FourCC))
	}
	cap.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, c.cfg.FPS)

	if !cap.IsOpened() {
		// Second attempt: conservative YUYV mode most UVC cameras accept.
		cap.Close()
		cap, err = gocv.OpenVideoCapture(c.cfg.DeviceIndex)
		if err != nil {
			c.status = device.StatusError
			return fmt.Errorf("devices: reopen camera %d: %w", c.cfg.DeviceIndex, err)
		}
		cap.Set(gocv.VideoCaptureFOURCC, cap.ToCodec("YUYV"))
		cap.Set(gocv.VideoCaptureFrameWidth, 640)
		cap.Set(gocv.VideoCaptureFrameHeight, 480)
		cap.Set(gocv.VideoCaptureFPS, 30)
		if !cap.IsOpened() {
			cap.Close()
			c.status = device.StatusError
			return fmt.Errorf("devices: camera %d refused both modes", c.cfg.DeviceIndex)
		}
		c.log.Warn("camera fell back to 640x480 YUYV", "device", c.cfg.DeviceIndex)
	}

	c.cap = cap
	c.status = device.StatusReady
	c.log.Info("camera initialized",
		"device", c.cfg.DeviceIndex,
		"width", c.cap.Get(gocv.VideoCaptureFrameWidth),
		"height", c.cap.Get(gocv.VideoCaptureFrameHeight))
	return nil
}

// Start marks the camera running.
func (c *Camera) Start() error {
	if c.cap == nil {
		return fmt.Errorf("devices: camera %s not initialized", c.id)
	}
	c.status = device.StatusRunning
	return nil
}

// Stop marks the camera ready but keeps the device open.
func (c *Camera) Stop() error {
	c.status = device.StatusReady
	return nil
}

// Cleanup closes the capture device.
func (c *Camera) Cleanup() error {
	c.status = device.StatusDisconnected
	if c.cap == nil {
		return nil
	}
	err := c.cap.Close()
	c.cap = nil
	return err
}

// ReadFrame fills dst with the next frame.
func (c *Camera) ReadFrame(dst *gocv.Mat) error {
	if c.cap == nil || c.status != device.StatusRunning {
		return fmt.Errorf("devices: camera %s not running", c.id)
	}
	if !c.cap.Read(dst) || dst.Empty() {
		return fmt.Errorf("devices: camera %s read failed", c.id)
	}
	c.frames++
	return nil
}

// Info reports the camera state.
func (c *Camera) Info() device.Info {
	return device.Info{
		ID:     c.id,
		Kind:   device.KindCamera,
		Status: c.status,
		Details: map[string]interface{}{
			"device_index": c.cfg.DeviceIndex,
			"frames_read":  c.frames,
		},
	}
}
