// Package timectrl owns the simulated instant. The clock composes a base
// instant (wall clock, manual calendar fields, or a TLE-set epoch) with a
// manual delta and an accumulated warp offset; every other component reads
// the result once per frame through Now().
package timectrl

import (
	"sync"
	"time"
)

// SimClock is the read-only view of simulation time consumed by the
// per-frame pipeline.
type SimClock interface {
	// Now returns the current simulated instant. A pure read: internal
	// state changes only through explicit clock transitions, never here.
	Now() time.Time
}

// Mode describes how the clock's base instant is computed.
type Mode int

const (
	// Idle means no instant has been established yet.
	Idle Mode = iota
	// FreeRunning tracks the live wall clock.
	FreeRunning
	// Manual holds a user-specified calendar instant as a frozen base.
	Manual
	// EpochLocked is seeded from a loaded TLE set's earliest epoch and then
	// flows like FreeRunning from that base.
	EpochLocked
)

func (m Mode) String() string {
	switch m {
	case FreeRunning:
		return "free-running"
	case Manual:
		return "manual"
	case EpochLocked:
		return "epoch-locked"
	default:
		return "idle"
	}
}

// ManualDelta is the operator-adjustable offset applied on top of the base
// instant in any mode.
type ManualDelta struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

func (d ManualDelta) duration() time.Duration {
	return time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// Clock is the simulation clock state machine. The visible instant is
// always base + manual delta + warp offset; the warp offset accumulates
// once per rendered frame while warping is enabled and is never implicitly
// reset.
type Clock struct {
	mu sync.RWMutex

	mode       Mode
	baseSim    time.Time // simulated instant at the moment the base was set
	baseWall   time.Time // wall instant at the moment the base was set
	manual     ManualDelta
	warpOffset time.Duration
	warping    bool
	warpRate   float64 // simulated seconds added per rendered frame

	nowFn func() time.Time // wall clock source; replaceable in tests
}

// Option configures a Clock.
type Option func(*Clock)

// WithWallClock overrides the wall-clock source.
func WithWallClock(fn func() time.Time) Option {
	return func(c *Clock) { c.nowFn = fn }
}

// New constructs an idle clock.
func New(opts ...Option) *Clock {
	c := &Clock{nowFn: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current simulated instant. In Idle mode it returns the
// zero time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now()
}

func (c *Clock) now() time.Time {
	switch c.mode {
	case Idle:
		return time.Time{}
	case Manual:
		return c.baseSim.Add(c.manual.duration() + c.warpOffset)
	default: // FreeRunning, EpochLocked
		elapsed := c.nowFn().Sub(c.baseWall)
		return c.baseSim.Add(elapsed + c.manual.duration() + c.warpOffset)
	}
}

// Mode returns the current base mode.
func (c *Clock) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Tick advances the warp offset by one frame's worth of simulated seconds.
// Called exactly once per rendered frame; it is independent of real elapsed
// wall time between frames. Disabling warp freezes the offset.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warping {
		c.warpOffset += time.Duration(c.warpRate * float64(time.Second))
	}
}

// SetWarp enables or disables warping at the given rate in simulated
// seconds per frame. Disabling does not reset the accumulated offset.
func (c *Clock) SetWarp(enabled bool, ratePerFrame float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warping = enabled
	c.warpRate = ratePerFrame
}

// SetFreeRunning switches the base to the live wall clock. Warp and manual
// deltas compose on top unchanged.
func (c *Clock) SetFreeRunning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wall := c.nowFn()
	c.mode = FreeRunning
	c.baseSim = wall
	c.baseWall = wall
}

// SetManual freezes the base at the given calendar instant. Warp and manual
// deltas compose on top unchanged.
func (c *Clock) SetManual(instant time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Manual
	c.baseSim = instant.UTC()
	c.baseWall = c.nowFn()
}

// SetManualDelta replaces the manual day/hour/minute/second offsets.
func (c *Clock) SetManualDelta(d ManualDelta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manual = d
}

// LockToEpoch seeds the base from a freshly loaded TLE set's earliest epoch
// and lets simulated time flow from there.
func (c *Clock) LockToEpoch(epoch time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = EpochLocked
	c.baseSim = epoch.UTC()
	c.baseWall = c.nowFn()
}

// Reset clears the warp offset and manual deltas and re-seeds the base to
// the live wall clock. This is the only transition that discards the warp
// offset.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wall := c.nowFn()
	c.mode = FreeRunning
	c.baseSim = wall
	c.baseWall = wall
	c.manual = ManualDelta{}
	c.warpOffset = 0
}
