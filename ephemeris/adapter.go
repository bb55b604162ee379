// Package ephemeris wraps the external SGP4 propagator and the uploaded
// ephemeris-table source. Both produce normalized orbital state vectors in
// metres, retagged to J2000, for consumption by the per-frame pipeline.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/orbitviz/frames"
	"github.com/signalsfoundry/orbitviz/model"
)

// ErrPropagation reports an SGP4 state that could not be used: the external
// propagator panicked or returned a non-finite or zero position. Callers
// swallow this per satellite; it is never a batch failure.
var ErrPropagation = errors.New("ephemeris: propagation failed")

const kmToM = 1000.0

// Adapter owns one satellite record inside the external SGP4 propagator.
// The propagator is a black box returning position/velocity in a TEME-like
// inertial-of-epoch frame in kilometres; the adapter converts to metres and
// J2000 before anything downstream sees the state.
type Adapter struct {
	rec satellite.Satellite
}

// NewAdapter initialises the external propagator from raw TLE lines.
// go-satellite panics on structurally bad lines, which is reported as an
// error so one malformed satellite drops out of the roster cleanly.
func NewAdapter(line1, line2 string) (a *Adapter, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: TLE rejected by propagator: %v", ErrPropagation, r)
		}
	}()
	rec := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &Adapter{rec: rec}, nil
}

// StateAt propagates the satellite record to the instant and returns the
// normalized state. The TEME output is retagged J2000 through the
// visualization-grade path in frames.
func (a *Adapter) StateAt(t time.Time) (osv model.OSV, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: propagator panic: %v", ErrPropagation, r)
		}
	}()

	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, vel := satellite.Propagate(a.rec, year, int(month), day, hour, min, sec)
	if !finite(pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z) {
		return model.OSV{}, fmt.Errorf("%w: non-finite state at %s", ErrPropagation, t.Format(time.RFC3339))
	}
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return model.OSV{}, fmt.Errorf("%w: zero position at %s", ErrPropagation, t.Format(time.RFC3339))
	}

	teme := model.OSV{
		Position: model.Vec3{X: pos.X * kmToM, Y: pos.Y * kmToM, Z: pos.Z * kmToM},
		Velocity: model.Vec3{X: vel.X * kmToM, Y: vel.Y * kmToM, Z: vel.Z * kmToM},
		Time:     t,
		Frame:    model.FrameTEME,
	}
	return frames.OSVTEMEToJ2000(teme), nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
