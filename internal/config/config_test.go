package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log-level: debug
camera:
  device-index: 2
  width: 640
  height: 480
  fps: 25
processor:
  amplification: 50
  low-freq: 0.9
  high-freq: 1.8
web:
  enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Camera.DeviceIndex)
	assert.Equal(t, 25.0, cfg.Camera.FPS)
	assert.Equal(t, 50.0, cfg.Processor.Amplification)
	assert.Equal(t, 0.9, cfg.Processor.LowFreq)
	assert.False(t, cfg.Web.Enabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, 4, cfg.Processor.PyramidLevels)
	assert.Equal(t, 12.0, cfg.Processor.WindowSecs)
}

func TestParseRejectsInvalidBand(t *testing.T) {
	_, err := Parse([]byte(`
processor:
  low-freq: 2.0
  high-freq: 0.8
`))
	assert.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("no-such-key: true\n"))
	assert.Error(t, err)
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
