package device

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/purevision/purevision/pkg/bus"
)

// Lifecycle event names published on the bus.
const (
	EventCreated     = "device.created"
	EventInitialized = "device.initialized"
	EventStarted     = "device.started"
	EventStopped     = "device.stopped"
	EventCleaned     = "device.cleaned"
)

// Manager owns device instances and drives their lifecycle. Lifecycle
// transitions are published on the manager's event bus.
type Manager struct {
	registry *Registry
	bus      *bus.Bus
	log      *slog.Logger

	mu      sync.Mutex
	devices map[string]Device
	order   []string // creation order, used for start/stop sequencing
}

// NewManager creates a manager over a registry and an event bus.
// A nil logger falls back to slog.Default.
func NewManager(registry *Registry, b *bus.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		bus:      b,
		log:      logger,
		devices:  make(map[string]Device),
	}
}

// Bus returns the manager's event bus.
func (m *Manager) Bus() *bus.Bus {
	return m.bus
}

// Create instantiates a device from a registered module. An empty id is
// replaced with "<module>-<short uuid>". The new device is created but not
// initialized.
func (m *Manager) Create(module, id string, cfg map[string]interface{}) (Device, error) {
	if id == "" {
		id = fmt.Sprintf("%s-%s", module, uuid.NewString()[:8])
	}

	m.mu.Lock()
	if _, exists := m.devices[id]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("device: id %q already in use", id)
	}
	m.mu.Unlock()

	dev, err := m.registry.Create(module, id, cfg)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.devices[id] = dev
	m.order = append(m.order, id)
	m.mu.Unlock()

	m.log.Info("device created", "module", module, "id", id, "kind", dev.Kind())
	m.publish(EventCreated, dev)
	return dev, nil
}

// Get returns a device by id.
func (m *Manager) Get(id string) (Device, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dev, ok := m.devices[id]
	return dev, ok
}

// Initialize initializes one device by id.
func (m *Manager) Initialize(id string) error {
	dev, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("device: no device %q", id)
	}
	if err := dev.Initialize(); err != nil {
		return fmt.Errorf("device: initialize %s: %w", id, err)
	}
	m.publish(EventInitialized, dev)
	return nil
}

// StartAll initializes and starts every device in creation order, stopping
// at the first failure.
func (m *Manager) StartAll() error {
	for _, id := range m.snapshotOrder() {
		dev, ok := m.Get(id)
		if !ok {
			continue
		}
		if dev.Status() == StatusUninitialized {
			if err := m.Initialize(id); err != nil {
				return err
			}
		}
		if err := dev.Start(); err != nil {
			return fmt.Errorf("device: start %s: %w", id, err)
		}
		m.log.Info("device started", "id", id)
		m.publish(EventStarted, dev)
	}
	return nil
}

// StopAll stops every device in reverse creation order. All devices are
// attempted; the first error is returned.
func (m *Manager) StopAll() error {
	var firstErr error
	order := m.snapshotOrder()
	for i := len(order) - 1; i >= 0; i-- {
		dev, ok := m.Get(order[i])
		if !ok {
			continue
		}
		if err := dev.Stop(); err != nil {
			m.log.Error("device stop failed", "id", order[i], "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.publish(EventStopped, dev)
	}
	return firstErr
}

// CleanupAll releases all device resources in reverse creation order and
// forgets the instances.
func (m *Manager) CleanupAll() {
	order := m.snapshotOrder()
	for i := len(order) - 1; i >= 0; i-- {
		dev, ok := m.Get(order[i])
		if !ok {
			continue
		}
		if err := dev.Cleanup(); err != nil {
			m.log.Error("device cleanup failed", "id", order[i], "error", err)
		}
		m.publish(EventCleaned, dev)
	}

	m.mu.Lock()
	m.devices = make(map[string]Device)
	m.order = nil
	m.mu.Unlock()
}

// Infos returns a snapshot of every device, in creation order.
func (m *Manager) Infos() []Info {
	order := m.snapshotOrder()
	infos := make([]Info, 0, len(order))
	for _, id := range order {
		if dev, ok := m.Get(id); ok {
			infos = append(infos, dev.Info())
		}
	}
	return infos
}

func (m *Manager) snapshotOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	order := make([]string, len(m.order))
	copy(order, m.order)
	return order
}

func (m *Manager) publish(event string, dev Device) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(event, map[string]interface{}{
		"id":     dev.ID(),
		"kind":   string(dev.Kind()),
		"status": string(dev.Status()),
	})
}
