package frames

import (
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/timesys"
)

// WGS84 ellipsoid.
const (
	wgs84A    = 6378137.0
	wgs84F    = 1.0 / 298.257223563
	wgs84E2   = wgs84F * (2 - wgs84F)
	geodetIter = 5
)

// CartToWGS84 converts an ECEF position in metres to geodetic latitude,
// longitude and altitude. Longitude comes straight from atan2; latitude and
// altitude are refined with a fixed 5-iteration loop against the WGS84
// flattening. The iteration count is a bounded-approximation contract:
// residual error is not checked, matching the accuracy needs of ground-track
// display.
func CartToWGS84(r model.Vec3) model.Geodetic {
	lon := math.Atan2(r.Y, r.X)
	p := math.Hypot(r.X, r.Y)

	lat := math.Atan2(r.Z, p)
	var n float64
	for i := 0; i < geodetIter; i++ {
		s := math.Sin(lat)
		n = wgs84A / math.Sqrt(1-wgs84E2*s*s)
		lat = math.Atan2(r.Z+wgs84E2*n*s, p)
	}

	var alt float64
	if c := math.Cos(lat); math.Abs(c) > 1e-12 {
		alt = p/c - n
	} else {
		alt = math.Abs(r.Z) - n*(1-wgs84E2)
	}

	return model.Geodetic{
		LatDeg: lat * rad2deg,
		LonDeg: lon * rad2deg,
		AltM:   alt,
	}
}

// WGS84ToCart is the closed-form inverse of CartToWGS84.
func WGS84ToCart(g model.Geodetic) model.Vec3 {
	lat := g.LatDeg * deg2rad
	lon := g.LonDeg * deg2rad

	s, c := math.Sincos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*s*s)

	return model.Vec3{
		X: (n + g.AltM) * c * math.Cos(lon),
		Y: (n + g.AltM) * c * math.Sin(lon),
		Z: (n*(1-wgs84E2) + g.AltM) * s,
	}
}

// SubSolarPoint returns the geodetic point directly beneath the Sun at the
// instant. The solar position uses the USNO low-precision ephemeris in
// equatorial (CEP-like) coordinates, rotated to Earth-fixed through the
// position-only path.
func SubSolarPoint(t time.Time, nut *model.Nutation) model.Geodetic {
	_, jt := timesys.JulianTime(t)
	d := jt - timesys.J2000

	// Mean anomaly and mean longitude of the Sun, degrees.
	g := (357.529 + 0.98560028*d) * deg2rad
	q := 280.459 + 0.98564736*d

	// Ecliptic longitude and distance.
	l := (q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)) * deg2rad
	dist := (1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)) * 1.495978707e11

	// Obliquity, then equatorial coordinates.
	eps := (23.439 - 0.00000036*d) * deg2rad
	sl, cl := math.Sincos(l)
	sun := model.Vec3{
		X: dist * cl,
		Y: dist * sl * math.Cos(eps),
		Z: dist * sl * math.Sin(eps),
	}

	return CartToWGS84(PosCEPToECEF(sun, t, nut))
}
