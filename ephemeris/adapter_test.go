package ephemeris

import (
	"testing"
	"time"

	"github.com/signalsfoundry/orbitviz/frames"
	"github.com/signalsfoundry/orbitviz/model"
)

const (
	issLine1 = "1 25544U 98067A   23305.51782528  .00016717  00000-0  10270-3 0  9009"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.49309239426291"
)

var issEpoch = time.Date(2023, time.November, 1, 12, 25, 40, 0, time.UTC)

func TestNewAdapterRejectsGarbage(t *testing.T) {
	if _, err := NewAdapter("1 bad", "2 bad"); err == nil {
		t.Fatal("expected error for garbage TLE lines")
	}
}

func TestStateAtNormalizesUnitsAndFrame(t *testing.T) {
	a, err := NewAdapter(issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}

	osv, err := a.StateAt(issEpoch)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}

	if osv.Frame != model.FrameJ2000 {
		t.Fatalf("Frame = %v, want J2000", osv.Frame)
	}
	if !osv.Time.Equal(issEpoch) {
		t.Fatalf("Time = %v, want %v", osv.Time, issEpoch)
	}

	// Radius in metres must sit in the LEO band, not the kilometre band.
	r := osv.Position.Norm()
	if r < 6.6e6 || r > 7.0e6 {
		t.Fatalf("|r| = %g m, want LEO radius near 6.8e6", r)
	}
	v := osv.Velocity.Norm()
	if v < 7.3e3 || v > 8.0e3 {
		t.Fatalf("|v| = %g m/s, want orbital speed near 7.7e3", v)
	}
}

func TestStateAtAltitudeIsLEO(t *testing.T) {
	a, err := NewAdapter(issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	osv, err := a.StateAt(issEpoch)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}

	ecef := frames.OSVJ2000ToECEF(osv, nil)
	geo := frames.CartToWGS84(ecef.Position)
	if geo.AltM < 350e3 || geo.AltM > 500e3 {
		t.Fatalf("altitude = %f km, want 350-500 km", geo.AltM/1e3)
	}
	// The station never leaves the band bounded by its inclination.
	if geo.LatDeg < -52 || geo.LatDeg > 52 {
		t.Fatalf("latitude = %f, want within ±52", geo.LatDeg)
	}
}

func TestStateAtMovesBetweenInstants(t *testing.T) {
	a, err := NewAdapter(issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}

	s0, err := a.StateAt(issEpoch)
	if err != nil {
		t.Fatalf("StateAt epoch: %v", err)
	}
	s1, err := a.StateAt(issEpoch.Add(time.Minute))
	if err != nil {
		t.Fatalf("StateAt epoch+1m: %v", err)
	}

	// At 7.7 km/s a minute of flight covers several hundred kilometres.
	d := s1.Position.Sub(s0.Position).Norm()
	if d < 300e3 || d > 600e3 {
		t.Fatalf("displacement over 1 minute = %f km, want 300-600 km", d/1e3)
	}
}
