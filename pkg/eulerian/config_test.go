package eulerian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	for _, rate := range []float64{15, 24, 30, 60} {
		cfg := DefaultConfig()
		cfg.FrameRate = rate
		cfg.LowFreq = 0.5
		cfg.HighFreq = rate/2 - 0.1
		assert.NoError(t, cfg.Validate(), "frame rate %v", rate)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"inverted band", func(c *Config) { c.LowFreq = 2.0; c.HighFreq = 0.8 }, ErrInvalidBand},
		{"equal band", func(c *Config) { c.LowFreq = 1.0; c.HighFreq = 1.0 }, ErrInvalidBand},
		{"zero amplification", func(c *Config) { c.Amplification = 0 }, ErrInvalidAmplification},
		{"negative amplification", func(c *Config) { c.Amplification = -5 }, ErrInvalidAmplification},
		{"zero levels", func(c *Config) { c.PyramidLevels = 0 }, ErrInvalidLevels},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, ErrInvalidFrameRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestConfigureRejectsInvalidAndKeepsState(t *testing.T) {
	p, err := New(DefaultConfig(), DefaultStabilityParams(), nil)
	require.NoError(t, err)
	defer p.Close()

	before := p.Config()

	bad := DefaultConfig()
	bad.LowFreq = 3.0
	bad.HighFreq = 1.0
	require.ErrorIs(t, p.Configure(bad), ErrInvalidBand)

	assert.Equal(t, before, p.Config())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplification = -1
	_, err := New(cfg, DefaultStabilityParams(), nil)
	assert.ErrorIs(t, err, ErrInvalidAmplification)
}
