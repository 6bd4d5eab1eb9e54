// Package detection supplies optional face bounding boxes to the
// magnification pipeline. Detection quality is not a goal here; any
// Detector that yields pixel rectangles can drive the ROI.
package detection

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector finds faces in a decoded BGR frame.
type Detector interface {
	// Detect returns face bounding boxes in pixel coordinates.
	Detect(frame gocv.Mat) ([]image.Rectangle, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	CascadePath  string  // Path to the Haar cascade XML; probed if empty
	Downscale    float64 // Detection-time downscale factor (0-1]
	MinNeighbors int     // Cascade neighbor threshold
	MinSize      int     // Minimum face size in pixels (pre-downscale)
}

// DefaultConfig returns production defaults for the frontal-face cascade.
func DefaultConfig() Config {
	return Config{
		Downscale:    0.5,
		MinNeighbors: 5,
		MinSize:      80,
	}
}

// SelectLargest picks the biggest face from multiple detections, which is
// the one most likely to be the measurement subject.
func SelectLargest(faces []image.Rectangle) *image.Rectangle {
	if len(faces) == 0 {
		return nil
	}
	best := 0
	bestArea := faces[0].Dx() * faces[0].Dy()
	for i := 1; i < len(faces); i++ {
		if area := faces[i].Dx() * faces[i].Dy(); area > bestArea {
			best = i
			bestArea = area
		}
	}
	return &faces[best]
}
