package eulerian

import "image"

// roiSelector chooses the region to analyze each frame.
// Precedence: smoothed face box > manual rectangle > centered default.
type roiSelector struct {
	fracW, fracH float64

	manual *image.Rectangle

	// Face box smoothing state. The weight applies to the previous value.
	smoothed  image.Rectangle
	hasFace   bool
	smoothing float64
}

func newROISelector(fracW, fracH float64) *roiSelector {
	return &roiSelector{
		fracW:     fracW,
		fracH:     fracH,
		smoothing: 0.7,
	}
}

// Select returns the region for this frame, always clamped to the frame
// bounds and never empty for a non-empty frame. The face box is used only
// when supplied on this call; the smoothing state persists across misses.
func (s *roiSelector) Select(width, height int, face *image.Rectangle) image.Rectangle {
	if face != nil {
		s.smoothFace(*face)
		if r := clampRegion(s.smoothed, width, height); !r.Empty() {
			return r
		}
	}
	if s.manual != nil {
		if r := clampRegion(*s.manual, width, height); !r.Empty() {
			return r
		}
	}
	return defaultRegion(width, height, s.fracW, s.fracH)
}

// SetManual sets or clears the manual rectangle.
func (s *roiSelector) SetManual(r *image.Rectangle) {
	if r == nil {
		s.manual = nil
		return
	}
	rect := *r
	s.manual = &rect
}

// Reset clears the face smoothing state (tracking restart).
func (s *roiSelector) Reset() {
	s.hasFace = false
	s.smoothed = image.Rectangle{}
}

func (s *roiSelector) smoothFace(face image.Rectangle) {
	if !s.hasFace {
		s.smoothed = face
		s.hasFace = true
		return
	}
	a := s.smoothing
	mix := func(prev, next int) int {
		return int(a*float64(prev) + (1-a)*float64(next))
	}
	px, py := s.smoothed.Min.X, s.smoothed.Min.Y
	pw, ph := s.smoothed.Dx(), s.smoothed.Dy()
	nx, ny := face.Min.X, face.Min.Y
	nw, nh := face.Dx(), face.Dy()
	x, y := mix(px, nx), mix(py, ny)
	w, h := mix(pw, nw), mix(ph, nh)
	s.smoothed = image.Rect(x, y, x+w, y+h)
}

// defaultRegion is the centered box sized by the configured fractions.
func defaultRegion(width, height int, fracW, fracH float64) image.Rectangle {
	w := int(float64(width) * fracW)
	h := int(float64(height) * fracH)
	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// clampRegion clips r to [0,width) x [0,height). The result may be empty.
func clampRegion(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}
