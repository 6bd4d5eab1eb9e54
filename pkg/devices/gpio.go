package devices

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/purevision/purevision/pkg/device"
)

// PinDirection is the configured role of a GPIO pin.
type PinDirection string

const (
	PinIn  PinDirection = "in"
	PinOut PinDirection = "out"
)

// PinConfig configures a single GPIO pin.
type PinConfig struct {
	Direction PinDirection
	Initial   bool
}

// GPIO is an indicator device driven by pipeline events, e.g. lighting an
// LED while a reading is locked. Pin state is kept in memory; wiring it to
// real hardware is a host concern and this module runs in simulation on
// machines without pins.
type GPIO struct {
	id     string
	status device.Status
	log    *slog.Logger

	mu     sync.Mutex
	config map[int]PinConfig
	levels map[int]bool
	writes uint64
}

// NewGPIO creates a GPIO device with the given pin map.
func NewGPIO(id string, pins map[int]PinConfig, logger *slog.Logger) *GPIO {
	if logger == nil {
		logger = slog.Default()
	}
	return &GPIO{
		id:     id,
		status: device.StatusUninitialized,
		log:    logger,
		config: pins,
		levels: make(map[int]bool),
	}
}

func (g *GPIO) ID() string            { return g.id }
func (g *GPIO) Kind() device.Kind     { return device.KindGPIO }
func (g *GPIO) Status() device.Status { return g.status }

// Initialize applies the initial pin levels.
func (g *GPIO) Initialize() error {
	g.mu.Lock()
	for pin, cfg := range g.config {
		if cfg.Direction == PinOut {
			g.levels[pin] = cfg.Initial
		}
	}
	g.mu.Unlock()
	g.status = device.StatusReady
	return nil
}

// Start marks the device running.
func (g *GPIO) Start() error {
	g.status = device.StatusRunning
	return nil
}

// Stop drives all output pins low.
func (g *GPIO) Stop() error {
	g.mu.Lock()
	for pin, cfg := range g.config {
		if cfg.Direction == PinOut {
			g.levels[pin] = false
		}
	}
	g.mu.Unlock()
	g.status = device.StatusReady
	return nil
}

// Cleanup resets all pin state.
func (g *GPIO) Cleanup() error {
	g.mu.Lock()
	g.levels = make(map[int]bool)
	g.mu.Unlock()
	g.status = device.StatusDisconnected
	return nil
}

// Write sets an output pin level.
func (g *GPIO) Write(pin int, level bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg, ok := g.config[pin]
	if !ok {
		return fmt.Errorf("devices: gpio %s: pin %d not configured", g.id, pin)
	}
	if cfg.Direction != PinOut {
		return fmt.Errorf("devices: gpio %s: pin %d is not an output", g.id, pin)
	}
	g.levels[pin] = level
	g.writes++
	return nil
}

// Read returns a pin level.
func (g *GPIO) Read(pin int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.config[pin]; !ok {
		return false, fmt.Errorf("devices: gpio %s: pin %d not configured", g.id, pin)
	}
	return g.levels[pin], nil
}

// Info reports the pin levels.
func (g *GPIO) Info() device.Info {
	g.mu.Lock()
	defer g.mu.Unlock()

	pins := make(map[string]interface{}, len(g.levels))
	for pin, level := range g.levels {
		pins[fmt.Sprintf("pin_%d", pin)] = level
	}
	return device.Info{
		ID:     g.id,
		Kind:   device.KindGPIO,
		Status: g.status,
		Details: map[string]interface{}{
			"pins":   pins,
			"writes": g.writes,
		},
	}
}
