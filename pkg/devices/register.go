package devices

import (
	"log/slog"

	"github.com/purevision/purevision/pkg/detection"
	"github.com/purevision/purevision/pkg/device"
	"github.com/purevision/purevision/pkg/eulerian"
)

// Module names as registered with the device registry.
const (
	ModuleCamera    = "camera"
	ModuleProcessor = "eulerian_processor"
	ModuleDisplay   = "display"
	ModuleGPIO      = "gpio"
)

// RegisterBuiltins registers factories for all built-in modules. Factories
// read typed values out of the free-form config map and fall back to
// defaults for anything missing.
func RegisterBuiltins(r *device.Registry, logger *slog.Logger) {
	r.Register(ModuleCamera, func(id string, cfg map[string]interface{}) (device.Device, error) {
		c := DefaultCameraConfig()
		if v, ok := toInt(cfg["device_index"]); ok {
			c.DeviceIndex = v
		}
		if v, ok := toInt(cfg["width"]); ok {
			c.Width = v
		}
		if v, ok := toInt(cfg["height"]); ok {
			c.Height = v
		}
		if v, ok := toFloat(cfg["fps"]); ok {
			c.FPS = v
		}
		if v, ok := cfg["fourcc"].(string); ok {
			c.FourCC = v
		}
		return NewCamera(id, c, logger), nil
	})

	r.Register(ModuleProcessor, func(id string, cfg map[string]interface{}) (device.Device, error) {
		ecfg, _ := cfg["config"].(eulerian.Config)
		if ecfg == (eulerian.Config{}) {
			ecfg = eulerian.DefaultConfig()
		}
		params, ok := cfg["params"].(eulerian.StabilityParams)
		if !ok {
			params = eulerian.DefaultStabilityParams()
		}
		det, _ := cfg["detector"].(detection.Detector)
		return NewPulseProcessor(id, ecfg, params, det, logger), nil
	})

	r.Register(ModuleDisplay, func(id string, cfg map[string]interface{}) (device.Device, error) {
		name, _ := cfg["window_name"].(string)
		return NewDisplay(id, name, logger), nil
	})

	r.Register(ModuleGPIO, func(id string, cfg map[string]interface{}) (device.Device, error) {
		pins, _ := cfg["pins"].(map[int]PinConfig)
		return NewGPIO(id, pins, logger), nil
	})
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
