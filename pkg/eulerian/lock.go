package eulerian

import (
	"math"
	"time"
)

// lockMachine gates whether a new rate measurement is trusted and freezes a
// confident reading for a fixed hold time. Two states: unlocked (measuring,
// accumulating stable time) and locked (reading frozen until expiry).
type lockMachine struct {
	stableSecs float64
	holdSecs   float64

	locked      bool
	lockedValue int
	expiry      time.Time
	accum       float64 // stable wall-clock seconds accumulated while unlocked
}

func newLockMachine(params StabilityParams) *lockMachine {
	return &lockMachine{
		stableSecs: params.StableSecs,
		holdSecs:   params.LockHoldSecs,
	}
}

// Update advances the state machine by one frame. While locked, motion and
// measurement are ignored and only expiry is checked; the call that expires
// the lock does not accumulate. While unlocked, stable unsuppressed frames
// accumulate dt, and any moving or suppressed frame resets the accumulator
// to zero with no partial credit.
func (m *lockMachine) Update(now time.Time, dt float64, stable, suppressed bool, estimate float64, hasEstimate bool) {
	if m.locked {
		if !now.Before(m.expiry) {
			m.locked = false
			m.lockedValue = 0
			m.accum = 0
		}
		return
	}

	if stable && !suppressed {
		m.accum += dt
		if m.accum >= m.stableSecs && hasEstimate {
			m.locked = true
			m.lockedValue = int(math.Round(estimate))
			m.expiry = now.Add(time.Duration(m.holdSecs * float64(time.Second)))
		}
	} else {
		m.accum = 0
	}
}

// Locked reports whether a reading is currently frozen.
func (m *lockMachine) Locked() bool {
	return m.locked
}

// LockedValue returns the frozen bpm reading. The boolean is true only while
// locked.
func (m *lockMachine) LockedValue() (int, bool) {
	return m.lockedValue, m.locked
}

// StableFor returns the accumulated stable seconds.
func (m *lockMachine) StableFor() float64 {
	return m.accum
}

// Remaining returns the seconds until the lock expires, or 0 when unlocked.
func (m *lockMachine) Remaining(now time.Time) float64 {
	if !m.locked {
		return 0
	}
	r := m.expiry.Sub(now).Seconds()
	if r < 0 {
		return 0
	}
	return r
}

// SetParams updates the gating durations without touching current state.
func (m *lockMachine) SetParams(params StabilityParams) {
	m.stableSecs = params.StableSecs
	m.holdSecs = params.LockHoldSecs
}

// Reset returns to unlocked with a zero accumulator.
func (m *lockMachine) Reset() {
	m.locked = false
	m.lockedValue = 0
	m.accum = 0
}
