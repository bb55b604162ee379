package model

import "time"

// EarthMu is the WGS84 gravitational parameter of the Earth in m³/s².
const EarthMu = 3.986004418e14

// Elements is a classical Keplerian element set. Angles are stored in
// degrees, the semi-major axis in metres. Only elliptical orbits are
// supported: A > 0 and E in [0,1).
type Elements struct {
	A       float64 // semi-major axis, m
	E       float64 // eccentricity
	IDeg    float64 // inclination
	RAANDeg float64 // right ascension of the ascending node
	ArgPDeg float64 // argument of periapsis
	MeanDeg float64 // mean anomaly at Epoch
	Mu      float64 // gravitational parameter, m³/s²
	Epoch   time.Time
	Frame   Frame // frame the elements were derived in
}
