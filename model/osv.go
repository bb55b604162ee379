package model

import "time"

// OSV is an orbital state vector: position and velocity at an instant in a
// named frame. Positions are metres, velocities metres per second.
type OSV struct {
	Position Vec3      `json:"position"`
	Velocity Vec3      `json:"velocity"`
	Time     time.Time `json:"time"`
	Frame    Frame     `json:"frame"`
}

// Nutation holds the nutation terms for an instant. Dpsi (longitude) and
// Deps (obliquity) are the periodic corrections, Eps the mean obliquity.
// All in degrees. Recomputed every frame; never cached across frames.
type Nutation struct {
	Dpsi float64
	Deps float64
	Eps  float64
}

// Geodetic is a WGS84 position: latitude/longitude in degrees, altitude in
// metres above the ellipsoid.
type Geodetic struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
	AltM   float64 `json:"alt_m"`
}
