// Package config loads the purevision system configuration from a YAML file
// with environment overrides for the common knobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v2"
)

// Config is the full system configuration.
type Config struct {
	LogLevel  string          `yaml:"log-level"`
	Camera    CameraConfig    `yaml:"camera"`
	Processor ProcessorConfig `yaml:"processor"`
	Display   DisplayConfig   `yaml:"display"`
	Web       WebConfig       `yaml:"web"`
}

// CameraConfig describes the capture device.
type CameraConfig struct {
	DeviceIndex int     `yaml:"device-index"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FPS         float64 `yaml:"fps"`
	FourCC      string  `yaml:"fourcc"`
}

// ProcessorConfig holds the magnification and stability parameters.
type ProcessorConfig struct {
	Amplification     float64 `yaml:"amplification"`
	LowFreq           float64 `yaml:"low-freq"`
	HighFreq          float64 `yaml:"high-freq"`
	PyramidLevels     int     `yaml:"pyramid-levels"`
	ChromaAttenuation float64 `yaml:"chroma-attenuation"`
	ROIFracW          float64 `yaml:"roi-frac-w"`
	ROIFracH          float64 `yaml:"roi-frac-h"`
	MirrorFlip        bool    `yaml:"mirror-flip"`

	StableSecs      float64 `yaml:"stable-secs"`
	LockHoldSecs    float64 `yaml:"lock-hold-secs"`
	MotionThreshold float64 `yaml:"motion-threshold"`
	EMABeta         float64 `yaml:"ema-beta"`
	WindowSecs      float64 `yaml:"window-secs"`

	RequireFace    bool   `yaml:"require-face"`
	FaceHoldFrames int    `yaml:"face-hold-frames"`
	CascadePath    string `yaml:"cascade-path"`
}

// DisplayConfig describes the on-screen preview window.
type DisplayConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WindowName string `yaml:"window-name"`
}

// WebConfig describes the monitor server.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		LogLevel: "info",
		Camera: CameraConfig{
			DeviceIndex: 0,
			Width:       1280,
			Height:      720,
			FPS:         30,
			FourCC:      "MJPG",
		},
		Processor: ProcessorConfig{
			Amplification:     30,
			LowFreq:           0.8,
			HighFreq:          2.0,
			PyramidLevels:     4,
			ChromaAttenuation: 0.7,
			ROIFracW:          0.35,
			ROIFracH:          0.35,
			MirrorFlip:        true,
			StableSecs:        2.0,
			LockHoldSecs:      5.0,
			MotionThreshold:   0.008,
			EMABeta:           0.7,
			WindowSecs:        12.0,
			RequireFace:       false,
			FaceHoldFrames:    10,
		},
		Display: DisplayConfig{
			Enabled:    true,
			WindowName: "purevision",
		},
		Web: WebConfig{
			Enabled: true,
			Port:    "8080",
		},
	}
}

// ParseFile loads a YAML configuration file over the defaults.
func ParseFile(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(buf)
}

// Parse unmarshals YAML configuration over the defaults.
func Parse(buf []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides the common knobs from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("PUREVISION_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PUREVISION_CAMERA_INDEX"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil {
			c.Camera.DeviceIndex = idx
		}
	}
	if v := os.Getenv("PUREVISION_WEB_PORT"); v != "" {
		c.Web.Port = v
	}
}

// Validate checks the sections that are not revalidated downstream.
func (c *Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.New("config: camera dimensions must be positive")
	}
	if c.Camera.FPS <= 0 {
		return errors.New("config: camera fps must be positive")
	}
	if c.Processor.LowFreq >= c.Processor.HighFreq {
		return errors.New("config: low-freq must be below high-freq")
	}
	if c.Processor.WindowSecs <= 0 {
		return errors.New("config: window-secs must be positive")
	}
	return nil
}
