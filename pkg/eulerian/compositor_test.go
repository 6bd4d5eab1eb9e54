package eulerian

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

// renderedDiff draws two results onto identical black frames and returns the
// summed mean absolute pixel difference.
func renderedDiff(a, b Result) float64 {
	cfg := DefaultConfig()
	params := DefaultStabilityParams()

	fa := solidMat(240, 320, 0)
	defer fa.Close()
	fb := solidMat(240, 320, 0)
	defer fb.Close()

	drawOverlays(&fa, a, cfg, params, 0, 0)
	drawOverlays(&fb, b, cfg, params, 0, 0)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(fa, fb, &diff)
	m := diff.Mean()
	return m.Val1 + m.Val2 + m.Val3
}

func TestOverlayHidesLiveReadingWhileSuppressed(t *testing.T) {
	bpm := 72.4
	base := Result{
		Region:     image.Rect(40, 30, 100, 70),
		Stable:     true,
		Suppressed: true,
	}
	withBPM := base
	withBPM.BPMSmoothed = &bpm

	assert.Equal(t, 0.0, renderedDiff(base, withBPM),
		"a suppressed frame must not show the live reading")

	// Sanity: with suppression lifted, the reading is drawn.
	visible := withBPM
	visible.Suppressed = false
	hidden := base
	hidden.Suppressed = false
	assert.Greater(t, renderedDiff(hidden, visible), 0.0)
}
