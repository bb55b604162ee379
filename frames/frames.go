// Package frames rotates orbital states between the J2000 inertial frame,
// mean-of-date, the celestial-ephemeris-pole frame, Earth-centred
// Earth-fixed, and WGS84 geodetic coordinates.
//
// The chain is J2000 → MOD (precession) → CEP (nutation) → ECEF (Earth
// rotation) → WGS84. Each stage is a pure rotation and invertible; the
// geodetic stage is an iterative ellipsoid inversion. Transforms have no
// error path: a frame-tag mismatch is a programming error and panics.
package frames

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/timesys"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	arc2rad = deg2rad / 3600.0

	// OmegaEarth is the Earth rotation rate in rad/s (IAU value).
	OmegaEarth = 7.292115146706979e-5
)

func mustFrame(got, want model.Frame, op string) {
	if got != want {
		panic(fmt.Sprintf("frames: %s called with %s input, want %s", op, got, want))
	}
}

// nutationFor returns nut when supplied, otherwise recomputes the terms for
// the instant. A nil nutation input is tolerated by design rather than
// propagated downstream.
func nutationFor(t time.Time, nut *model.Nutation) model.Nutation {
	if nut != nil {
		return *nut
	}
	_, jt := timesys.JulianTime(t)
	return timesys.Nutation(timesys.JulianCenturies(jt))
}

// precessionAngles returns the IAU-1976 precession angles ζ, θ, z in radians
// for T Julian centuries from J2000.0.
func precessionAngles(T float64) (zeta, theta, z float64) {
	zeta = (2306.2181*T + 0.30188*T*T + 0.017998*T*T*T) * arc2rad
	theta = (2004.3109*T - 0.42665*T*T - 0.041833*T*T*T) * arc2rad
	z = (2306.2181*T + 1.09468*T*T + 0.018203*T*T*T) * arc2rad
	return
}

// posJ2000ToMOD applies precession for the given instant.
func posJ2000ToMOD(r model.Vec3, T float64) model.Vec3 {
	zeta, theta, z := precessionAngles(T)
	return rot3(rot2(rot3(r, -zeta), theta), -z)
}

// posMODToJ2000 is the inverse precession rotation.
func posMODToJ2000(r model.Vec3, T float64) model.Vec3 {
	zeta, theta, z := precessionAngles(T)
	return rot3(rot2(rot3(r, z), -theta), zeta)
}

// posMODToCEP applies the nutation rotation.
func posMODToCEP(r model.Vec3, nut model.Nutation) model.Vec3 {
	eps := nut.Eps * deg2rad
	return rot1(rot3(rot1(r, eps), -nut.Dpsi*deg2rad), -(nut.Eps+nut.Deps)*deg2rad)
}

// posCEPToMOD is the inverse nutation rotation.
func posCEPToMOD(r model.Vec3, nut model.Nutation) model.Vec3 {
	return rot1(rot3(rot1(r, (nut.Eps+nut.Deps)*deg2rad), nut.Dpsi*deg2rad), -nut.Eps*deg2rad)
}

// gastRad returns Greenwich Apparent Sidereal Time in radians for an instant.
func gastRad(t time.Time, nut model.Nutation) float64 {
	jd, jt := timesys.JulianTime(t)
	return timesys.SiderealTime(0, jd, jt, &nut) * deg2rad
}

// OSVJ2000ToCEP rotates a J2000 state into the celestial-ephemeris-pole
// frame: precession followed by nutation. The same rotation chain is applied
// to position and velocity; precession and nutation are quasi-static over
// one frame.
func OSVJ2000ToCEP(osv model.OSV, nut *model.Nutation) model.OSV {
	mustFrame(osv.Frame, model.FrameJ2000, "OSVJ2000ToCEP")
	n := nutationFor(osv.Time, nut)
	_, jt := timesys.JulianTime(osv.Time)
	T := timesys.JulianCenturies(jt)

	return model.OSV{
		Position: posMODToCEP(posJ2000ToMOD(osv.Position, T), n),
		Velocity: posMODToCEP(posJ2000ToMOD(osv.Velocity, T), n),
		Time:     osv.Time,
		Frame:    model.FrameCEP,
	}
}

// OSVJ2000ToECEF rotates a J2000 state all the way to Earth-fixed. The
// velocity additionally receives the Earth-rotation-rate cross term from the
// time derivative of the sidereal rotation: v_ecef = R3(θ)·v_cep − ω × r_ecef.
// Dropping the cross term makes secondary ground tracks drift.
func OSVJ2000ToECEF(osv model.OSV, nut *model.Nutation) model.OSV {
	n := nutationFor(osv.Time, nut)
	cep := OSVJ2000ToCEP(osv, &n)
	theta := gastRad(osv.Time, n)

	r := rot3(cep.Position, theta)
	v := rot3(cep.Velocity, theta)
	// ω × r with ω = (0, 0, OmegaEarth).
	v.X += OmegaEarth * r.Y
	v.Y -= OmegaEarth * r.X

	return model.OSV{Position: r, Velocity: v, Time: osv.Time, Frame: model.FrameECEF}
}

// PosJ2000ToCEP is the position-only forward path for ephemeral points that
// carry no velocity.
func PosJ2000ToCEP(r model.Vec3, t time.Time, nut *model.Nutation) model.Vec3 {
	n := nutationFor(t, nut)
	_, jt := timesys.JulianTime(t)
	T := timesys.JulianCenturies(jt)
	return posMODToCEP(posJ2000ToMOD(r, T), n)
}

// PosCEPToJ2000 inverts PosJ2000ToCEP.
func PosCEPToJ2000(r model.Vec3, t time.Time, nut *model.Nutation) model.Vec3 {
	n := nutationFor(t, nut)
	_, jt := timesys.JulianTime(t)
	T := timesys.JulianCenturies(jt)
	return posMODToJ2000(posCEPToMOD(r, n), T)
}

// PosCEPToECEF rotates a CEP position by apparent sidereal time.
func PosCEPToECEF(r model.Vec3, t time.Time, nut *model.Nutation) model.Vec3 {
	n := nutationFor(t, nut)
	return rot3(r, gastRad(t, n))
}

// PosECEFToCEP inverts PosCEPToECEF.
func PosECEFToCEP(r model.Vec3, t time.Time, nut *model.Nutation) model.Vec3 {
	n := nutationFor(t, nut)
	return rot3(r, -gastRad(t, n))
}

// PosECEFToJ2000 chains the position-only inverse stages back to J2000.
func PosECEFToJ2000(r model.Vec3, t time.Time, nut *model.Nutation) model.Vec3 {
	n := nutationFor(t, nut)
	return PosCEPToJ2000(PosECEFToCEP(r, t, &n), t, &n)
}

// OSVTEMEToJ2000 retags an SGP4-native TEME state as J2000. TEME differs
// from J2000 by precession, nutation, and the equation of the equinoxes,
// which amounts to tens of metres at LEO over the supported range; the
// visualization-grade pipeline accepts that and treats the propagator output
// as inertial-of-epoch.
func OSVTEMEToJ2000(osv model.OSV) model.OSV {
	mustFrame(osv.Frame, model.FrameTEME, "OSVTEMEToJ2000")
	osv.Frame = model.FrameJ2000
	return osv
}
