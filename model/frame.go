package model

// Frame identifies the reference frame a vector or state is expressed in.
// Frame identity is always explicit; a J2000 vector must never be handed to
// code expecting ECEF without going through a frames transform.
type Frame int

const (
	FrameUnknown Frame = iota
	// FrameTEME is the true-equator mean-equinox frame native to SGP4 output.
	FrameTEME
	// FrameJ2000 is the Earth-centred inertial frame of epoch J2000.0.
	FrameJ2000
	// FrameMOD is mean-of-date: J2000 with precession applied.
	FrameMOD
	// FrameCEP is the celestial-ephemeris-pole frame: MOD with nutation applied.
	FrameCEP
	// FrameECEF is Earth-centred Earth-fixed: CEP rotated by apparent sidereal time.
	FrameECEF
)

func (f Frame) String() string {
	switch f {
	case FrameTEME:
		return "TEME"
	case FrameJ2000:
		return "J2000"
	case FrameMOD:
		return "MOD"
	case FrameCEP:
		return "CEP"
	case FrameECEF:
		return "ECEF"
	default:
		return "UNKNOWN"
	}
}

// ParseFrame maps a display-frame option string to a Frame. Only the two
// frames exposed to the render layer are accepted.
func ParseFrame(s string) (Frame, bool) {
	switch s {
	case "inertial", "j2000", "J2000":
		return FrameJ2000, true
	case "earth-fixed", "ecef", "ECEF":
		return FrameECEF, true
	default:
		return FrameUnknown, false
	}
}
