package eulerian

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// Overlay colors.
var (
	colorStable  = color.RGBA{0, 255, 0, 0}
	colorMoving  = color.RGBA{255, 0, 0, 0}
	colorWhite   = color.RGBA{255, 255, 255, 0}
	colorYellow  = color.RGBA{255, 255, 0, 0}
	colorLiveBPM = color.RGBA{0, 200, 0, 0}
	colorGray    = color.RGBA{180, 180, 180, 0}
)

// drawOverlays renders the region outline, status text and the bpm reading
// onto the output frame. Presentation only; no state is mutated.
func drawOverlays(frame *gocv.Mat, res Result, cfg Config, params StabilityParams, stableFor, lockRemaining float64) {
	rectColor := colorMoving
	if res.Stable && !res.Suppressed {
		rectColor = colorStable
	}
	gocv.Rectangle(frame, res.Region, rectColor, 2)

	title := "Place the measurement area inside the box"
	if cfg.RequireFace {
		title = "Place your face inside the box"
	}
	titleY := res.Region.Min.Y - 10
	if titleY < 30 {
		titleY = 30
	}
	gocv.PutText(frame, title, image.Pt(res.Region.Min.X, titleY),
		gocv.FontHersheySimplex, 0.6, colorWhite, 2)

	switch {
	case res.Suppressed:
		gocv.PutText(frame, "No face detected - place your face in the box",
			image.Pt(20, 70), gocv.FontHersheySimplex, 0.8, colorYellow, 2)
	case !res.Stable && !res.Locked:
		gocv.PutText(frame, "Hold still, stabilizing...",
			image.Pt(20, 70), gocv.FontHersheySimplex, 0.9, colorYellow, 2)
	case res.Stable && !res.Locked:
		remaining := math.Max(0, params.StableSecs-stableFor)
		gocv.PutText(frame, fmt.Sprintf("Verifying... %.1fs", remaining),
			image.Pt(20, 70), gocv.FontHersheySimplex, 0.9, colorWhite, 2)
	}

	if res.Locked && res.BPMLocked != nil {
		gocv.PutText(frame, fmt.Sprintf("%d bpm", *res.BPMLocked),
			image.Pt(20, 40), gocv.FontHersheySimplex, 1.2, colorStable, 3)
		gocv.PutText(frame, fmt.Sprintf("Reading locked %.0fs", lockRemaining),
			image.Pt(20, frame.Rows()-20), gocv.FontHersheySimplex, 0.8, colorWhite, 2)
	} else if res.BPMSmoothed != nil && !res.Suppressed {
		gocv.PutText(frame, fmt.Sprintf("%d bpm", int(math.Round(*res.BPMSmoothed))),
			image.Pt(20, 40), gocv.FontHersheySimplex, 1.2, colorLiveBPM, 2)
	}

	gocv.PutText(frame,
		fmt.Sprintf("EVM alpha=%.0f [%.1f-%.1f]Hz L=%d",
			cfg.Amplification, cfg.LowFreq, cfg.HighFreq, cfg.PyramidLevels),
		image.Pt(20, frame.Rows()-50), gocv.FontHersheySimplex, 0.7, colorWhite, 2)
	gocv.PutText(frame,
		fmt.Sprintf("motion=%.3f stable<%.3f", res.Motion, params.MotionThreshold),
		image.Pt(20, frame.Rows()-80), gocv.FontHersheySimplex, 0.6, colorGray, 1)
}
