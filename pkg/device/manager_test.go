package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purevision/purevision/pkg/bus"
)

// fakeDevice records lifecycle calls.
type fakeDevice struct {
	id      string
	status  Status
	calls   []string
	failOn  string
	failErr error
}

func newFakeDevice(id string) *fakeDevice {
	return &fakeDevice{id: id, status: StatusUninitialized}
}

func (d *fakeDevice) ID() string     { return d.id }
func (d *fakeDevice) Kind() Kind     { return KindProcessor }
func (d *fakeDevice) Status() Status { return d.status }

func (d *fakeDevice) step(name string, next Status) error {
	d.calls = append(d.calls, name)
	if d.failOn == name {
		d.status = StatusError
		return d.failErr
	}
	d.status = next
	return nil
}

func (d *fakeDevice) Initialize() error { return d.step("initialize", StatusReady) }
func (d *fakeDevice) Start() error      { return d.step("start", StatusRunning) }
func (d *fakeDevice) Stop() error       { return d.step("stop", StatusReady) }
func (d *fakeDevice) Cleanup() error    { return d.step("cleanup", StatusDisconnected) }

func (d *fakeDevice) Info() Info {
	return Info{ID: d.id, Kind: d.Kind(), Status: d.status}
}

func registryWith(devices map[string]*fakeDevice) *Registry {
	r := NewRegistry()
	r.Register("fake", func(id string, _ map[string]interface{}) (Device, error) {
		d := newFakeDevice(id)
		devices[id] = d
		return d, nil
	})
	return r
}

func TestRegistryUnknownModule(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("nope", "x", nil)
	assert.Error(t, err)
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register("camera", nil)
	r.Register("processor", nil)
	assert.Equal(t, []string{"camera", "processor"}, r.Names())
}

func TestManagerLifecycle(t *testing.T) {
	devices := map[string]*fakeDevice{}
	m := NewManager(registryWith(devices), bus.New(), nil)

	_, err := m.Create("fake", "a", nil)
	require.NoError(t, err)
	_, err = m.Create("fake", "b", nil)
	require.NoError(t, err)

	require.NoError(t, m.StartAll())
	assert.Equal(t, []string{"initialize", "start"}, devices["a"].calls)
	assert.Equal(t, StatusRunning, devices["b"].status)

	require.NoError(t, m.StopAll())
	m.CleanupAll()
	assert.Equal(t, []string{"initialize", "start", "stop", "cleanup"}, devices["a"].calls)
	assert.Empty(t, m.Infos())
}

func TestManagerStopsInReverseOrder(t *testing.T) {
	devices := map[string]*fakeDevice{}
	m := NewManager(registryWith(devices), bus.New(), nil)

	var stopped []string
	m.Bus().Subscribe(EventStopped, func(ev bus.Event) {
		stopped = append(stopped, ev.Data["id"].(string))
	})

	_, _ = m.Create("fake", "first", nil)
	_, _ = m.Create("fake", "second", nil)
	require.NoError(t, m.StartAll())
	require.NoError(t, m.StopAll())

	assert.Equal(t, []string{"second", "first"}, stopped)
}

func TestManagerStartAllStopsOnFailure(t *testing.T) {
	devices := map[string]*fakeDevice{}
	m := NewManager(registryWith(devices), bus.New(), nil)

	_, _ = m.Create("fake", "ok", nil)
	_, _ = m.Create("fake", "broken", nil)
	_, _ = m.Create("fake", "never", nil)
	devices["broken"].failOn = "start"
	devices["broken"].failErr = errors.New("no hardware")

	err := m.StartAll()
	require.Error(t, err)
	assert.Empty(t, devices["never"].calls, "devices after the failure are not started")
}

func TestManagerGeneratesIDs(t *testing.T) {
	devices := map[string]*fakeDevice{}
	m := NewManager(registryWith(devices), bus.New(), nil)

	dev, err := m.Create("fake", "", nil)
	require.NoError(t, err)
	assert.Contains(t, dev.ID(), "fake-")
}

func TestManagerRejectsDuplicateIDs(t *testing.T) {
	devices := map[string]*fakeDevice{}
	m := NewManager(registryWith(devices), bus.New(), nil)

	_, err := m.Create("fake", "dup", nil)
	require.NoError(t, err)
	_, err = m.Create("fake", "dup", nil)
	assert.Error(t, err)
}

func TestManagerPublishesLifecycleEvents(t *testing.T) {
	devices := map[string]*fakeDevice{}
	b := bus.New()
	m := NewManager(registryWith(devices), b, nil)

	var events []string
	for _, name := range []string{EventCreated, EventInitialized, EventStarted} {
		name := name
		b.Subscribe(name, func(bus.Event) { events = append(events, name) })
	}

	_, _ = m.Create("fake", "a", nil)
	require.NoError(t, m.StartAll())
	assert.Equal(t, []string{EventCreated, EventInitialized, EventStarted}, events)
}
