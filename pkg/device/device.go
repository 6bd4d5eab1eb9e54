// Package device defines the lifecycle contract for purevision device
// modules and the registry/manager that drive them.
//
// Capabilities are expressed as small interfaces composed over the base
// Device lifecycle, so consumers depend only on what they use: a capture
// loop needs a FrameSource and a FrameSink, not the full device surface.
package device

import "gocv.io/x/gocv"

// Status is the lifecycle state of a device.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusInitializing  Status = "initializing"
	StatusReady         Status = "ready"
	StatusRunning       Status = "running"
	StatusError         Status = "error"
	StatusDisconnected  Status = "disconnected"
)

// Kind identifies the hardware or processing role of a device.
type Kind string

const (
	KindCamera    Kind = "camera"
	KindProcessor Kind = "processor"
	KindDisplay   Kind = "display"
	KindGPIO      Kind = "gpio"
	// KindIMU has no built-in module; hosts with inertial sensors register
	// their own factory under it.
	KindIMU Kind = "imu"
)

// Info is a point-in-time snapshot of a device for status reporting.
type Info struct {
	ID      string                 `json:"id"`
	Kind    Kind                   `json:"kind"`
	Status  Status                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Device is the base lifecycle every module implements. Initialize acquires
// resources, Start/Stop bracket operation, and Cleanup releases everything.
// Calls are driven by the Manager in that order.
type Device interface {
	ID() string
	Kind() Kind
	Status() Status

	Initialize() error
	Start() error
	Stop() error
	Cleanup() error

	Info() Info
}

// FrameSource produces frames (cameras).
type FrameSource interface {
	Device

	// ReadFrame fills dst with the next frame.
	ReadFrame(dst *gocv.Mat) error
}

// FrameProcessor transforms frames (the magnification pipeline).
type FrameProcessor interface {
	Device

	// ProcessFrame returns a new frame owned by the caller.
	ProcessFrame(frame gocv.Mat) (gocv.Mat, error)
}

// FrameSink consumes frames (displays, recorders).
type FrameSink interface {
	Device

	ShowFrame(frame gocv.Mat) error
}
