package eulerian

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestROIDefaultRegionCentered(t *testing.T) {
	s := newROISelector(0.35, 0.35)

	r := s.Select(1280, 720, nil)
	assert.Equal(t, 448, r.Dx())
	assert.Equal(t, 252, r.Dy())
	assert.Equal(t, (1280-448)/2, r.Min.X)
	assert.Equal(t, (720-252)/2, r.Min.Y)
}

func TestROIPrecedence(t *testing.T) {
	s := newROISelector(0.35, 0.35)
	manual := image.Rect(10, 10, 110, 110)
	face := image.Rect(200, 200, 300, 300)

	// Manual beats default.
	s.SetManual(&manual)
	assert.Equal(t, manual, s.Select(640, 480, nil))

	// Face beats manual.
	assert.Equal(t, face, s.Select(640, 480, &face))

	// No face this frame: back to manual even though smoothing state exists.
	assert.Equal(t, manual, s.Select(640, 480, nil))

	// Clearing manual falls back to default.
	s.SetManual(nil)
	assert.Equal(t, defaultRegion(640, 480, 0.35, 0.35), s.Select(640, 480, nil))
}

func TestROIFaceSmoothing(t *testing.T) {
	s := newROISelector(0.35, 0.35)

	first := image.Rect(100, 100, 200, 200)
	got := s.Select(640, 480, &first)
	assert.Equal(t, first, got, "first detection seeds the smoother")

	// Second detection is blended: 0.7 previous + 0.3 new per coordinate.
	second := image.Rect(200, 200, 300, 300)
	got = s.Select(640, 480, &second)
	assert.Equal(t, 130, got.Min.X)
	assert.Equal(t, 130, got.Min.Y)
	assert.Equal(t, 100, got.Dx())
	assert.Equal(t, 100, got.Dy())

	// Reset restarts tracking: next detection seeds directly.
	s.Reset()
	got = s.Select(640, 480, &second)
	assert.Equal(t, second, got)
}

func TestROIClamping(t *testing.T) {
	s := newROISelector(0.35, 0.35)

	// Face box hanging off the frame edge is clipped to bounds.
	face := image.Rect(-50, -50, 100, 100)
	got := s.Select(640, 480, &face)
	assert.True(t, got.Min.X >= 0 && got.Min.Y >= 0)
	assert.True(t, got.Max.X <= 640 && got.Max.Y <= 480)
	assert.False(t, got.Empty())
}

func TestROIZeroAreaFallsBack(t *testing.T) {
	s := newROISelector(0.35, 0.35)

	// Manual rectangle entirely outside the frame clamps to empty; the
	// selector must substitute the default region.
	manual := image.Rect(700, 500, 800, 600)
	s.SetManual(&manual)
	got := s.Select(640, 480, nil)
	assert.Equal(t, defaultRegion(640, 480, 0.35, 0.35), got)

	// Same for a degenerate face box.
	face := image.Rect(10, 10, 10, 10)
	got = s.Select(640, 480, &face)
	assert.Equal(t, defaultRegion(640, 480, 0.35, 0.35), got)
}
