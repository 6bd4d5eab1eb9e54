package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectLargestEmpty(t *testing.T) {
	assert.Nil(t, SelectLargest(nil))
	assert.Nil(t, SelectLargest([]image.Rectangle{}))
}

func TestSelectLargestSingle(t *testing.T) {
	face := image.Rect(10, 10, 50, 50)
	got := SelectLargest([]image.Rectangle{face})
	assert.Equal(t, face, *got)
}

func TestSelectLargestPicksBiggestArea(t *testing.T) {
	faces := []image.Rectangle{
		image.Rect(0, 0, 40, 40),
		image.Rect(100, 100, 220, 220), // largest
		image.Rect(300, 300, 350, 350),
	}
	got := SelectLargest(faces)
	assert.Equal(t, faces[1], *got)
}

func TestNewCascadeMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CascadePath = "/nonexistent/cascade.xml"
	_, err := NewCascade(cfg)
	assert.Error(t, err)
}
