package eulerian

import (
	"image"

	"gocv.io/x/gocv"
)

// motionGate measures inter-frame luminance change inside the ROI crop and
// classifies the scene as stable or moving.
type motionGate struct {
	threshold float64

	prev    gocv.Mat
	hasPrev bool
}

func newMotionGate(threshold float64) *motionGate {
	return &motionGate{threshold: threshold}
}

// Measure converts the 8-bit BGR crop to blurred grayscale and compares it
// against the previous crop. The first call (or a crop whose size changed)
// reports motion 0. The grayscale crop always becomes the new comparison
// baseline, so the gate compares consecutive frames even while moving.
func (g *motionGate) Measure(crop gocv.Mat) (motion float64, stable bool) {
	gray := gocv.NewMat()
	gocv.CvtColor(crop, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	if g.hasPrev && g.prev.Rows() == gray.Rows() && g.prev.Cols() == gray.Cols() {
		diff := gocv.NewMat()
		gocv.AbsDiff(gray, g.prev, &diff)
		motion = diff.Mean().Val1 / 255.0
		diff.Close()
	}

	if g.hasPrev {
		g.prev.Close()
	}
	g.prev = gray
	g.hasPrev = true

	return motion, motion < g.threshold
}

// SetThreshold updates the stability threshold.
func (g *motionGate) SetThreshold(threshold float64) {
	g.threshold = threshold
}

// Close releases the retained grayscale crop.
func (g *motionGate) Close() {
	if g.hasPrev {
		g.prev.Close()
		g.hasPrev = false
	}
}
