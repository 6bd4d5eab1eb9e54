package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Typical cascade install locations, probed when no path is configured.
var cascadeCandidates = []string{
	"/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	"/usr/share/opencv/haarcascades/haarcascade_frontalface_default.xml",
}

// CascadeDetector detects faces with an OpenCV Haar cascade. Detection runs
// on a downscaled grayscale copy of the frame for speed; results are scaled
// back to frame coordinates.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	config     Config
	mu         sync.Mutex // Protects inference
}

// NewCascade creates a Haar cascade face detector. When cfg.CascadePath is
// empty, the usual system install locations are probed.
func NewCascade(cfg Config) (*CascadeDetector, error) {
	path := cfg.CascadePath
	if path == "" {
		for _, candidate := range cascadeCandidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("detection: no cascade file found; set CascadePath")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("detection: cascade file not found: %s", path)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("detection: failed to load cascade: %s", path)
	}

	if cfg.Downscale <= 0 || cfg.Downscale > 1 {
		cfg.Downscale = 0.5
	}
	return &CascadeDetector{classifier: classifier, config: cfg}, nil
}

// Detect finds faces in the BGR frame.
func (d *CascadeDetector) Detect(frame gocv.Mat) ([]image.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, fmt.Errorf("detection: empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	scale := d.config.Downscale
	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(gray, &small,
		image.Pt(int(float64(gray.Cols())*scale), int(float64(gray.Rows())*scale)),
		0, 0, gocv.InterpolationLinear)

	minSize := int(float64(d.config.MinSize) * scale)
	found := d.classifier.DetectMultiScaleWithParams(
		small, 1.1, d.config.MinNeighbors, 0,
		image.Pt(minSize, minSize), image.Pt(0, 0))

	faces := make([]image.Rectangle, 0, len(found))
	for _, r := range found {
		faces = append(faces, image.Rect(
			int(float64(r.Min.X)/scale),
			int(float64(r.Min.Y)/scale),
			int(float64(r.Max.X)/scale),
			int(float64(r.Max.Y)/scale),
		))
	}
	return faces, nil
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
