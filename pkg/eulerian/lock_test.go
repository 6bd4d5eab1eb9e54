package eulerian

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockParams() StabilityParams {
	p := DefaultStabilityParams()
	p.StableSecs = 2.0
	p.LockHoldSecs = 5.0
	return p
}

func TestLockEngagesAfterStableDuration(t *testing.T) {
	m := newLockMachine(lockParams())
	now := time.Unix(1000, 0)

	// 1.9 s of stable frames: still unlocked.
	for i := 0; i < 19; i++ {
		now = now.Add(100 * time.Millisecond)
		m.Update(now, 0.1, true, false, 71.6, true)
	}
	assert.False(t, m.Locked())
	assert.InDelta(t, 1.9, m.StableFor(), 1e-9)

	// The call that crosses the threshold locks within that same call.
	now = now.Add(100 * time.Millisecond)
	m.Update(now, 0.1, true, false, 71.6, true)
	require.True(t, m.Locked())
	v, ok := m.LockedValue()
	require.True(t, ok)
	assert.Equal(t, 72, v, "locked value is the rounded smoothed estimate")
}

func TestLockRequiresEstimate(t *testing.T) {
	m := newLockMachine(lockParams())
	now := time.Unix(1000, 0)

	for i := 0; i < 30; i++ {
		now = now.Add(100 * time.Millisecond)
		m.Update(now, 0.1, true, false, 0, false)
	}
	assert.False(t, m.Locked(), "no lock without an estimate")
	assert.Greater(t, m.StableFor(), 2.0)
}

func TestLockValueFrozenUntilExpiry(t *testing.T) {
	m := newLockMachine(lockParams())
	now := time.Unix(1000, 0)

	for !m.Locked() {
		now = now.Add(100 * time.Millisecond)
		m.Update(now, 0.1, true, false, 70, true)
	}
	v, _ := m.LockedValue()

	// Motion, suppression and new estimates are all ignored while locked.
	now = now.Add(time.Second)
	m.Update(now, 1.0, false, true, 99, true)
	require.True(t, m.Locked())
	got, _ := m.LockedValue()
	assert.Equal(t, v, got)

	// Expiry returns to unlocked with a zeroed accumulator.
	now = now.Add(10 * time.Second)
	m.Update(now, 10.0, true, false, 99, true)
	assert.False(t, m.Locked())
	_, ok := m.LockedValue()
	assert.False(t, ok)
	assert.Equal(t, 0.0, m.StableFor())
}

func TestMotionResetsAccumulator(t *testing.T) {
	m := newLockMachine(lockParams())
	now := time.Unix(1000, 0)

	// Stable for stableSecs - epsilon, then one moving frame.
	for i := 0; i < 19; i++ {
		now = now.Add(100 * time.Millisecond)
		m.Update(now, 0.1, true, false, 70, true)
	}
	require.Greater(t, m.StableFor(), 1.8)

	now = now.Add(100 * time.Millisecond)
	m.Update(now, 0.1, false, false, 70, true)
	assert.False(t, m.Locked())
	assert.Equal(t, 0.0, m.StableFor(), "a single moving frame resets to zero")
}

func TestSuppressionResetsAccumulator(t *testing.T) {
	m := newLockMachine(lockParams())
	now := time.Unix(1000, 0)

	for i := 0; i < 10; i++ {
		now = now.Add(100 * time.Millisecond)
		m.Update(now, 0.1, true, false, 70, true)
	}
	require.Greater(t, m.StableFor(), 0.9)

	// Stable but suppressed (e.g. face lost) also resets.
	now = now.Add(100 * time.Millisecond)
	m.Update(now, 0.1, true, true, 70, true)
	assert.Equal(t, 0.0, m.StableFor())
}
