// purevision - real-time Eulerian video magnification and pulse readout
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	arg "github.com/alexflint/go-arg"
	"gocv.io/x/gocv"

	"github.com/purevision/purevision/internal/config"
	"github.com/purevision/purevision/internal/log"
	"github.com/purevision/purevision/pkg/bus"
	"github.com/purevision/purevision/pkg/detection"
	"github.com/purevision/purevision/pkg/device"
	"github.com/purevision/purevision/pkg/devices"
	"github.com/purevision/purevision/pkg/eulerian"
	"github.com/purevision/purevision/pkg/fps"
	"github.com/purevision/purevision/pkg/web"
)

// lockPin drives an indicator while a reading is held.
const lockPin = 17

var version = "<not set>"

type Args struct {
	ConfigFile  string `arg:"-c,--config" help:"path to configuration file"`
	CameraIndex int    `arg:"--camera" help:"override the camera device index"`
	NoDisplay   bool   `arg:"--no-display" help:"disable the preview window"`
	NoWeb       bool   `arg:"--no-web" help:"disable the monitor server"`
	Verbose     bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.CameraIndex = -1
	arg.MustParse(&args)
	return args
}

func main() {
	if err := runMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMain() error {
	args := procArgs()

	var cfg config.Config
	var err error
	if args.ConfigFile != "" {
		cfg, err = config.ParseFile(args.ConfigFile)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return err
	}
	if args.Verbose {
		cfg.LogLevel = "debug"
	}
	if args.CameraIndex >= 0 {
		cfg.Camera.DeviceIndex = args.CameraIndex
	}
	if args.NoDisplay {
		cfg.Display.Enabled = false
	}
	if args.NoWeb {
		cfg.Web.Enabled = false
	}

	log.Init(cfg.LogLevel)
	logger := log.Named("main")
	logger.Info("starting purevision", "version", version, "camera", cfg.Camera.DeviceIndex)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	registry := device.NewRegistry()
	devices.RegisterBuiltins(registry, log.L())
	manager := device.NewManager(registry, bus.New(), log.L())

	var detector detection.Detector
	if cfg.Processor.RequireFace {
		dcfg := detection.DefaultConfig()
		dcfg.CascadePath = cfg.Processor.CascadePath
		detector, err = detection.NewCascade(dcfg)
		if err != nil {
			return fmt.Errorf("face detection required but unavailable: %w", err)
		}
	}

	ecfg := eulerian.Config{
		Amplification:     cfg.Processor.Amplification,
		LowFreq:           cfg.Processor.LowFreq,
		HighFreq:          cfg.Processor.HighFreq,
		PyramidLevels:     cfg.Processor.PyramidLevels,
		FrameRate:         cfg.Camera.FPS,
		ChromaAttenuation: cfg.Processor.ChromaAttenuation,
		ROIFracW:          cfg.Processor.ROIFracW,
		ROIFracH:          cfg.Processor.ROIFracH,
		RequireFace:       cfg.Processor.RequireFace,
		MirrorFlip:        cfg.Processor.MirrorFlip,
	}
	params := eulerian.StabilityParams{
		StableSecs:      cfg.Processor.StableSecs,
		LockHoldSecs:    cfg.Processor.LockHoldSecs,
		MotionThreshold: cfg.Processor.MotionThreshold,
		EMABeta:         cfg.Processor.EMABeta,
		WindowSecs:      cfg.Processor.WindowSecs,
		FaceHoldFrames:  cfg.Processor.FaceHoldFrames,
	}

	camDev, err := manager.Create(devices.ModuleCamera, "camera", map[string]interface{}{
		"device_index": cfg.Camera.DeviceIndex,
		"width":        cfg.Camera.Width,
		"height":       cfg.Camera.Height,
		"fps":          cfg.Camera.FPS,
		"fourcc":       cfg.Camera.FourCC,
	})
	if err != nil {
		return err
	}
	procDev, err := manager.Create(devices.ModuleProcessor, "processor", map[string]interface{}{
		"config":   ecfg,
		"params":   params,
		"detector": detector,
	})
	if err != nil {
		return err
	}
	gpioDev, err := manager.Create(devices.ModuleGPIO, "gpio", map[string]interface{}{
		"pins": map[int]devices.PinConfig{
			lockPin: {Direction: devices.PinOut},
		},
	})
	if err != nil {
		return err
	}

	var display *devices.Display
	if cfg.Display.Enabled {
		dispDev, err := manager.Create(devices.ModuleDisplay, "display", map[string]interface{}{
			"window_name": cfg.Display.WindowName,
		})
		if err != nil {
			return err
		}
		display = dispDev.(*devices.Display)
	}

	camera := camDev.(*devices.Camera)
	proc := procDev.(*devices.PulseProcessor)
	gpio := gpioDev.(*devices.GPIO)

	if err := manager.StartAll(); err != nil {
		manager.CleanupAll()
		return err
	}
	defer func() {
		if err := manager.StopAll(); err != nil {
			logger.Error("stop failed", "error", err)
		}
		manager.CleanupAll()
	}()

	var srv *web.Server
	if cfg.Web.Enabled {
		port, err := strconv.Atoi(cfg.Web.Port)
		if err != nil {
			return fmt.Errorf("config: web port %q: %w", cfg.Web.Port, err)
		}
		srv = web.NewServer(port, log.Named("web"))
		srv.StatusFunc = func() interface{} { return proc.LastResult() }
		srv.DevicesFunc = manager.Infos
		srv.ConfigureFunc = func(p map[string]interface{}) error { return applyParams(proc, p) }
		srv.RestartFunc = proc.Pipeline().RestartTracking
		srv.StartAsync()
		defer srv.Shutdown()
	}

	// Fan results out to the bus, the lock indicator and any websocket
	// subscribers. Runs on the processing goroutine.
	wasLocked := false
	proc.OnResult = func(res eulerian.Result) {
		if res.Locked != wasLocked {
			wasLocked = res.Locked
			gpio.Write(lockPin, res.Locked)
			name := "pulse.unlocked"
			data := map[string]interface{}{}
			if res.Locked && res.BPMLocked != nil {
				name = "pulse.locked"
				data["bpm"] = *res.BPMLocked
			}
			manager.Bus().Publish(name, data)
		}
		if srv != nil {
			srv.Publish(res)
		}
	}
	manager.Bus().Subscribe("pulse.locked", func(ev bus.Event) {
		logger.Info("reading locked", "bpm", ev.Data["bpm"])
	})

	return runLoop(ctx, logger, camera, proc, display)
}

// runLoop is the capture/process/display loop. It returns when the context
// is cancelled or the camera stops delivering frames.
func runLoop(ctx context.Context, logger *slog.Logger, camera *devices.Camera,
	proc *devices.PulseProcessor, display *devices.Display) error {
	frame := gocv.NewMat()
	defer frame.Close()

	counter := fps.New(2 * time.Second)
	lastLog := time.Now()
	misses := 0

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := camera.ReadFrame(&frame); err != nil {
			misses++
			if misses >= 30 {
				return fmt.Errorf("camera stopped delivering frames: %w", err)
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		misses = 0

		out, err := proc.ProcessFrame(frame)
		if err != nil {
			logger.Warn("frame processing failed", "error", err)
			continue
		}
		counter.Tick()

		if display != nil {
			if err := display.ShowFrame(out); err != nil {
				out.Close()
				return err
			}
		}
		out.Close()

		if time.Since(lastLog) >= 10*time.Second {
			lastLog = time.Now()
			logger.Info("pipeline running", "fps", fmt.Sprintf("%.1f", counter.FPS()))
		}
	}
}

// applyParams maps runtime configuration requests from the monitor API onto
// the pipeline. Unknown keys are rejected.
func applyParams(proc *devices.PulseProcessor, params map[string]interface{}) error {
	cfg := proc.Pipeline().Config()
	sp := proc.Pipeline().StabilityParams()
	stabilityChanged := false

	for key, raw := range params {
		switch key {
		case "amplification":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("amplification: expected number")
			}
			cfg.Amplification = v
		case "low_freq":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("low_freq: expected number")
			}
			cfg.LowFreq = v
		case "high_freq":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("high_freq: expected number")
			}
			cfg.HighFreq = v
		case "pyramid_levels":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("pyramid_levels: expected number")
			}
			cfg.PyramidLevels = int(v)
		case "chroma_attenuation":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("chroma_attenuation: expected number")
			}
			cfg.ChromaAttenuation = v
		case "motion_threshold":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("motion_threshold: expected number")
			}
			sp.MotionThreshold = v
			stabilityChanged = true
		case "stable_secs":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("stable_secs: expected number")
			}
			sp.StableSecs = v
			stabilityChanged = true
		case "lock_hold_secs":
			v, ok := asFloat(raw)
			if !ok {
				return fmt.Errorf("lock_hold_secs: expected number")
			}
			sp.LockHoldSecs = v
			stabilityChanged = true
		default:
			return fmt.Errorf("unknown parameter %q", key)
		}
	}

	if err := proc.Pipeline().Configure(cfg); err != nil {
		return err
	}
	if stabilityChanged {
		proc.Pipeline().SetStabilityParams(sp)
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
