// Package timesys converts wall-clock instants into the astronomical time
// quantities the frame transforms consume: Julian date, Julian centuries,
// sidereal time, and nutation terms. All functions are pure; conversion has
// no hidden state.
package timesys

import (
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

const (
	// J2000 is the Julian date of the J2000.0 epoch.
	J2000 = 2451545.0
	// DaysPerCentury is the number of days in a Julian century.
	DaysPerCentury = 36525.0

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// JulianTime returns the Julian date jd at 0h UTC of the instant's calendar
// day, and the Julian time jt including the fractional day. Standard Meeus
// algorithm: January and February count as months 13 and 14 of the previous
// year before the Gregorian centuries correction.
func JulianTime(t time.Time) (jd, jt float64) {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd = math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5

	frac := (float64(t.Hour()) +
		float64(t.Minute())/60.0 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600.0) / 24.0

	return jd, jd + frac
}

// JulianCenturies returns T, the number of Julian centuries between jt and
// the J2000.0 epoch.
func JulianCenturies(jt float64) float64 {
	return (jt - J2000) / DaysPerCentury
}

// Nutation evaluates a short trigonometric nutation series at T Julian
// centuries from J2000.0. Dpsi and Deps are arcsecond-scale perturbations
// returned in degrees alongside the mean obliquity Eps. The series is the
// abridged IAU-1980 form: the dominant lunar-node term plus the leading
// solar and lunar longitude terms.
func Nutation(T float64) model.Nutation {
	// Mean obliquity of the ecliptic, degrees.
	eps := 23.439291 - 0.0130042*T - 1.64e-7*T*T + 5.04e-7*T*T*T

	// Fundamental arguments, degrees.
	l := 280.4665 + 36000.7698*T   // mean longitude of the Sun
	lp := 218.3165 + 481267.8813*T // mean longitude of the Moon
	om := 125.04452 - 1934.136261*T // longitude of the Moon's ascending node

	sOm, cOm := math.Sincos(om * deg2rad)
	s2L, c2L := math.Sincos(2 * l * deg2rad)
	s2Lp, c2Lp := math.Sincos(2 * lp * deg2rad)
	s2Om, c2Om := math.Sincos(2 * om * deg2rad)

	// Arcseconds, then degrees.
	dpsi := (-17.20*sOm - 1.32*s2L - 0.23*s2Lp + 0.21*s2Om) / 3600.0
	deps := (9.20*cOm + 0.57*c2L + 0.10*c2Lp - 0.09*c2Om) / 3600.0

	return model.Nutation{Dpsi: dpsi, Deps: deps, Eps: eps}
}

// SiderealTime returns the apparent sidereal time at the given longitude in
// degrees, normalized to [0, 360). jd is the Julian date at 0h, jt the full
// Julian time; the mean sidereal angle is the 1982 Almanac polynomial in
// centuries of jd plus the rated UT fraction. When nut is non-nil the
// equation of the equinoxes (dpsi·cos eps) is applied, yielding apparent
// rather than mean sidereal time.
func SiderealTime(lonDeg, jd, jt float64, nut *model.Nutation) float64 {
	T0 := (jd - J2000) / DaysPerCentury
	ut := jt - jd // fraction of day since 0h

	// GMST at 0h in seconds of time, then the UT fraction at the sidereal rate.
	gmstSec := 24110.54841 + 8640184.812866*T0 + 0.093104*T0*T0 - 6.2e-6*T0*T0*T0
	gmstSec += 86400.0 * 1.00273790934 * ut

	theta := gmstSec*(360.0/86400.0) + lonDeg
	if nut != nil {
		theta += nut.Dpsi * math.Cos(nut.Eps*deg2rad)
	}

	theta = math.Mod(theta, 360.0)
	if theta < 0 {
		theta += 360.0
	}
	return theta
}
