package frames

import (
	"math"

	"github.com/signalsfoundry/orbitviz/model"
)

// rot1 applies the R1 coordinate rotation (about X) by ang radians.
func rot1(v model.Vec3, ang float64) model.Vec3 {
	s, c := math.Sincos(ang)
	return model.Vec3{
		X: v.X,
		Y: c*v.Y + s*v.Z,
		Z: -s*v.Y + c*v.Z,
	}
}

// rot2 applies the R2 coordinate rotation (about Y) by ang radians.
func rot2(v model.Vec3, ang float64) model.Vec3 {
	s, c := math.Sincos(ang)
	return model.Vec3{
		X: c*v.X - s*v.Z,
		Y: v.Y,
		Z: s*v.X + c*v.Z,
	}
}

// rot3 applies the R3 coordinate rotation (about Z) by ang radians.
func rot3(v model.Vec3, ang float64) model.Vec3 {
	s, c := math.Sincos(ang)
	return model.Vec3{
		X: c*v.X + s*v.Y,
		Y: -s*v.X + c*v.Y,
		Z: v.Z,
	}
}
