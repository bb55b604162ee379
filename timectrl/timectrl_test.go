package timectrl

import (
	"testing"
	"time"
)

// frozenWall returns a wall-clock source pinned to a fixed instant.
func frozenWall(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIdleClockReturnsZero(t *testing.T) {
	c := New()
	if got := c.Now(); !got.IsZero() {
		t.Fatalf("Now() = %v, want zero time while idle", got)
	}
	if c.Mode() != Idle {
		t.Fatalf("Mode() = %v, want Idle", c.Mode())
	}
}

func TestLockToEpochFlowsFromEpoch(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	epoch := time.Date(2023, time.November, 1, 12, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.LockToEpoch(epoch)

	if c.Mode() != EpochLocked {
		t.Fatalf("Mode() = %v, want EpochLocked", c.Mode())
	}
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v at lock instant", got, epoch)
	}
}

func TestWarpAccumulatesPerTickNotWallTime(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	base := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManual(base)
	c.SetWarp(true, 60)

	for i := 0; i < 10; i++ {
		c.Tick()
	}

	// 10 frames at +60 simulated seconds each: exactly 600 s regardless of
	// real time between frames.
	want := base.Add(600 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestNegativeWarpRewinds(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	base := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManual(base)
	c.SetWarp(true, -30)
	c.Tick()
	c.Tick()

	want := base.Add(-60 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestDisablingWarpFreezesOffset(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	base := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManual(base)
	c.SetWarp(true, 60)
	c.Tick()
	c.SetWarp(false, 60)
	c.Tick()
	c.Tick()

	want := base.Add(60 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v (offset frozen while warp off)", got, want)
	}
}

func TestManualDeltaComposes(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	base := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManual(base)
	c.SetManualDelta(ManualDelta{Days: 1, Hours: 2, Minutes: 3, Seconds: 4})

	want := base.Add(26*time.Hour + 3*time.Minute + 4*time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestManualDeltaSurvivesModeSwitch(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	epoch := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManualDelta(ManualDelta{Hours: 1})
	c.LockToEpoch(epoch)

	want := epoch.Add(time.Hour)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v (delta composes across modes)", got, want)
	}
}

func TestFreeRunningTracksWallClock(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	current := wall

	c := New(WithWallClock(func() time.Time { return current }))
	c.SetFreeRunning()

	current = wall.Add(42 * time.Second)
	want := wall.Add(42 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestResetClearsWarpAndDelta(t *testing.T) {
	wall := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)

	c := New(WithWallClock(frozenWall(wall)))
	c.SetManual(time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC))
	c.SetManualDelta(ManualDelta{Days: 3})
	c.SetWarp(true, 120)
	c.Tick()

	c.Reset()

	if c.Mode() != FreeRunning {
		t.Fatalf("Mode() = %v, want FreeRunning after reset", c.Mode())
	}
	if got := c.Now(); !got.Equal(wall) {
		t.Fatalf("Now() = %v, want %v after reset", got, wall)
	}
}

func TestModeString(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{Idle, "idle"},
		{FreeRunning, "free-running"},
		{Manual, "manual"},
		{EpochLocked, "epoch-locked"},
	}
	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.mode, got, tc.want)
		}
	}
}
