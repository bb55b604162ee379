// Package kepler derives classical orbital elements from a Cartesian state
// and propagates them forward or backward in time. Only elliptical orbits
// are supported: parabolic and hyperbolic paths are out of scope.
package kepler

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	twoPi   = 2 * math.Pi

	// equatorialTolDeg is the inclination below which the ascending node is
	// undefined and the degenerate near-equatorial branch is taken.
	equatorialTolDeg = 1e-7

	// DefaultTolerance and DefaultMaxIterations bound the Kepler-equation
	// Newton-Raphson solve.
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 50
)

// ErrDidNotConverge reports that the Kepler-equation solver exceeded its
// iteration budget. Callers treat this as a hard propagation failure for the
// affected satellite and frame, never as a global fault.
var ErrDidNotConverge = errors.New("kepler: eccentric anomaly solve did not converge")

// ErrDegenerateOrbit reports an element set that cannot be propagated, such
// as a zero semi-major axis or an eccentricity outside [0,1).
var ErrDegenerateOrbit = errors.New("kepler: degenerate orbit")

// FromOSV computes classical orbital elements from a Cartesian state vector
// at its epoch. Follows the standard RV→COE derivation: specific angular
// momentum, eccentricity vector, energy integral for the semi-major axis,
// then node and periapsis angles with a degenerate branch for near-equatorial
// orbits where the sine of the inclination vanishes.
func FromOSV(osv model.OSV) (model.Elements, error) {
	r := osv.Position
	v := osv.Velocity
	rn := r.Norm()
	vn := v.Norm()
	if rn == 0 {
		return model.Elements{}, fmt.Errorf("%w: zero position vector", ErrDegenerateOrbit)
	}

	mu := model.EarthMu
	h := r.Cross(v)
	hn := h.Norm()

	// Eccentricity vector from the vis-viva relation.
	rv := r.Dot(v)
	eVec := r.Scale(vn*vn - mu/rn).Sub(v.Scale(rv)).Scale(1 / mu)
	e := eVec.Norm()

	// Semi-major axis from the specific orbital energy.
	xi := vn*vn/2 - mu/rn
	if xi >= 0 {
		return model.Elements{}, fmt.Errorf("%w: non-elliptical energy", ErrDegenerateOrbit)
	}
	a := -mu / (2 * xi)
	if e >= 1 {
		return model.Elements{}, fmt.Errorf("%w: eccentricity %.6f", ErrDegenerateOrbit, e)
	}

	inc := math.Acos(clamp(h.Z / hn))

	// Node vector k × h.
	node := model.Vec3{X: -h.Y, Y: h.X, Z: 0}
	nn := node.Norm()

	var raan, argp float64
	if inc*rad2deg < equatorialTolDeg {
		// Near-equatorial: the node is undefined. Fold the node angle into
		// the periapsis longitude instead of dividing by a vanishing sine.
		raan = 0
		argp = math.Atan2(eVec.Y, eVec.X)
		if argp < 0 {
			argp += twoPi
		}
	} else {
		raan = math.Acos(clamp(node.X / nn))
		if node.Y < 0 {
			raan = twoPi - raan
		}
		if e > 0 {
			argp = math.Acos(clamp(node.Dot(eVec) / (nn * e)))
			if eVec.Z < 0 {
				argp = twoPi - argp
			}
		}
	}

	// True anomaly, then eccentric and mean anomaly.
	var nu float64
	if e > 0 {
		nu = math.Acos(clamp(eVec.Dot(r) / (e * rn)))
		if rv < 0 {
			nu = twoPi - nu
		}
	} else {
		// Circular: measure from the node (or X axis when equatorial).
		ref := node
		if nn == 0 {
			ref = model.Vec3{X: 1}
		}
		nu = math.Acos(clamp(ref.Dot(r) / (ref.Norm() * rn)))
		if r.Z < 0 {
			nu = twoPi - nu
		}
	}

	ecc := 2 * math.Atan2(math.Sqrt(1-e)*math.Sin(nu/2), math.Sqrt(1+e)*math.Cos(nu/2))
	mean := ecc - e*math.Sin(ecc)
	mean = math.Mod(mean, twoPi)
	if mean < 0 {
		mean += twoPi
	}

	return model.Elements{
		A:       a,
		E:       e,
		IDeg:    inc * rad2deg,
		RAANDeg: raan * rad2deg,
		ArgPDeg: argp * rad2deg,
		MeanDeg: mean * rad2deg,
		Mu:      mu,
		Epoch:   osv.Time,
		Frame:   osv.Frame,
	}, nil
}

// Period returns the orbital period in seconds by Kepler's third law.
func Period(a, mu float64) float64 {
	return twoPi * math.Sqrt(a*a*a/mu)
}

// SolveEccentricAnomaly solves Kepler's equation E − e·sin(E) = M by
// Newton-Raphson. Input and output anomalies are in degrees; tol bounds the
// step size in radians. Returns ErrDidNotConverge when maxIter is exhausted.
func SolveEccentricAnomaly(meanDeg, e, tol float64, maxIter int) (float64, error) {
	m := math.Mod(meanDeg*deg2rad, twoPi)
	ecc := m
	for i := 0; i < maxIter; i++ {
		delta := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < tol {
			return ecc * rad2deg, nil
		}
	}
	return 0, fmt.Errorf("%w after %d iterations (M=%.6f° e=%.6f)", ErrDidNotConverge, maxIter, meanDeg, e)
}

// Propagate advances the element set to the target instant and reconstructs
// the inertial state. The mean anomaly advances linearly with elapsed time
// over the period; negative deltas propagate into the past, as required when
// sampling orbit trails on both sides of the current instant.
func Propagate(el model.Elements, target time.Time) (model.OSV, error) {
	if el.A == 0 {
		return model.OSV{}, fmt.Errorf("%w: zero semi-major axis", ErrDegenerateOrbit)
	}
	if el.E < 0 || el.E >= 1 {
		return model.OSV{}, fmt.Errorf("%w: eccentricity %.6f", ErrDegenerateOrbit, el.E)
	}
	mu := el.Mu
	if mu == 0 {
		mu = model.EarthMu
	}

	dt := target.Sub(el.Epoch).Seconds()
	period := Period(el.A, mu)
	meanDeg := el.MeanDeg + 360.0*dt/period

	eccDeg, err := SolveEccentricAnomaly(meanDeg, el.E, DefaultTolerance, DefaultMaxIterations)
	if err != nil {
		return model.OSV{}, err
	}
	ecc := eccDeg * deg2rad

	// Perifocal position and velocity.
	sinE, cosE := math.Sincos(ecc)
	rn := el.A * (1 - el.E*cosE)
	n := twoPi / period

	pos := model.Vec3{
		X: el.A * (cosE - el.E),
		Y: el.A * math.Sqrt(1-el.E*el.E) * sinE,
	}
	vel := model.Vec3{
		X: -n * el.A * el.A / rn * sinE,
		Y: n * el.A * el.A / rn * math.Sqrt(1-el.E*el.E) * cosE,
	}

	// Perifocal → inertial: R3(−Ω) R1(−i) R3(−ω).
	pos = perifocalToInertial(pos, el)
	vel = perifocalToInertial(vel, el)

	frame := el.Frame
	if frame == model.FrameUnknown {
		frame = model.FrameJ2000
	}
	return model.OSV{Position: pos, Velocity: vel, Time: target, Frame: frame}, nil
}

func perifocalToInertial(v model.Vec3, el model.Elements) model.Vec3 {
	v = rot3(v, -el.ArgPDeg*deg2rad)
	v = rot1(v, -el.IDeg*deg2rad)
	return rot3(v, -el.RAANDeg*deg2rad)
}

func rot1(v model.Vec3, ang float64) model.Vec3 {
	s, c := math.Sincos(ang)
	return model.Vec3{X: v.X, Y: c*v.Y + s*v.Z, Z: -s*v.Y + c*v.Z}
}

func rot3(v model.Vec3, ang float64) model.Vec3 {
	s, c := math.Sincos(ang)
	return model.Vec3{X: c*v.X + s*v.Y, Y: -s*v.X + c*v.Y, Z: v.Z}
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
