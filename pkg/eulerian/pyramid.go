package eulerian

import (
	"image"

	"gocv.io/x/gocv"
)

// amplifier builds the spatial pyramid, runs the temporal filter on the
// coarsest level, and composites the amplified band back onto the crop.
type amplifier struct {
	levels int
	gain   float64
	chroma float64
	filter *bandpassFilter
}

func newAmplifier(cfg Config) *amplifier {
	return &amplifier{
		levels: cfg.PyramidLevels,
		gain:   cfg.Amplification,
		chroma: cfg.ChromaAttenuation,
		filter: newBandpassFilter(cfg.LowFreq, cfg.HighFreq, cfg.FrameRate),
	}
}

// Magnify takes a float32 BGR crop normalized to [0,1] and returns the
// magnified crop plus the pre-amplification band from the coarsest pyramid
// level. The caller owns both returned Mats.
func (a *amplifier) Magnify(crop gocv.Mat) (out, band gocv.Mat) {
	// Gaussian pyramid: levels+1 entries, index 0 is the crop itself.
	// Only the downsampled levels are allocated here.
	sizes := make([]image.Point, a.levels+1)
	sizes[0] = image.Pt(crop.Cols(), crop.Rows())
	downs := make([]gocv.Mat, a.levels)
	cur := crop
	for i := 0; i < a.levels; i++ {
		downs[i] = gocv.NewMat()
		gocv.PyrDown(cur, &downs[i], image.Pt(0, 0), gocv.BorderDefault)
		sizes[i+1] = image.Pt(downs[i].Cols(), downs[i].Rows())
		cur = downs[i]
	}

	band = a.filter.Apply(cur)

	// Amplify and upsample back to crop resolution. Each PyrUp targets the
	// exact size of the next-finer level to avoid rounding drift.
	up := band.Clone()
	up.MultiplyFloat(float32(a.gain))
	for i := a.levels - 1; i >= 0; i-- {
		next := gocv.NewMat()
		gocv.PyrUp(up, &next, sizes[i], gocv.BorderDefault)
		up.Close()
		up = next
	}

	out = gocv.NewMat()
	gocv.Add(crop, up, &out)
	up.Close()
	clip01(&out)

	if a.chroma < 1.0 {
		attenuateChroma(&out, a.chroma)
	}

	for i := range downs {
		downs[i].Close()
	}
	return out, band
}

// Reconfigure swaps in new parameters and discards the filter state.
func (a *amplifier) Reconfigure(cfg Config) {
	a.filter.Reset()
	a.levels = cfg.PyramidLevels
	a.gain = cfg.Amplification
	a.chroma = cfg.ChromaAttenuation
	a.filter = newBandpassFilter(cfg.LowFreq, cfg.HighFreq, cfg.FrameRate)
}

// Close releases the filter state.
func (a *amplifier) Close() {
	a.filter.Reset()
}

// clip01 clamps a float Mat to [0,1] in place.
func clip01(m *gocv.Mat) {
	gocv.Threshold(*m, m, 1, 0, gocv.ThresholdTrunc)
	gocv.Threshold(*m, m, 0, 0, gocv.ThresholdToZero)
}

// attenuateChroma scales the Cr/Cb channels of a float BGR Mat in place.
// For float images OpenCV centers the chroma planes on 0.5, so the scaling
// is applied around that neutral point; scaling the raw values would shift
// the offset itself and tint the whole crop.
func attenuateChroma(m *gocv.Mat, atten float64) {
	ycc := gocv.NewMat()
	gocv.CvtColor(*m, &ycc, gocv.ColorBGRToYCrCb)
	channels := gocv.Split(ycc)
	for _, i := range []int{1, 2} {
		channels[i].SubtractFloat(0.5)
		channels[i].MultiplyFloat(float32(atten))
		channels[i].AddFloat(0.5)
	}
	gocv.Merge(channels, &ycc)
	gocv.CvtColor(ycc, m, gocv.ColorYCrCbToBGR)
	clip01(m)
	for i := range channels {
		channels[i].Close()
	}
	ycc.Close()
}
