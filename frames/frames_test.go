package frames

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/timesys"
)

var testInstant = time.Date(2023, time.November, 1, 12, 30, 0, 0, time.UTC)

func testNutation(t time.Time) model.Nutation {
	_, jt := timesys.JulianTime(t)
	return timesys.Nutation(timesys.JulianCenturies(jt))
}

func vecsClose(a, b model.Vec3, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

func TestPositionRoundTripJ2000ECEF(t *testing.T) {
	nut := testNutation(testInstant)
	r := model.Vec3{X: 6524.834e3, Y: 6862.875e3, Z: 6448.296e3}

	cep := PosJ2000ToCEP(r, testInstant, &nut)
	ecef := PosCEPToECEF(cep, testInstant, &nut)
	back := PosECEFToJ2000(ecef, testInstant, &nut)

	if !vecsClose(back, r, 1e-4) {
		t.Fatalf("round trip = %+v, want %+v", back, r)
	}
}

func TestRotationsPreserveNorm(t *testing.T) {
	nut := testNutation(testInstant)
	r := model.Vec3{X: -3871.2e3, Y: 5109.4e3, Z: 1099.8e3}
	want := r.Norm()

	cep := PosJ2000ToCEP(r, testInstant, &nut)
	if !scalar.EqualWithinRel(cep.Norm(), want, 1e-12) {
		t.Errorf("|CEP| = %f, want %f", cep.Norm(), want)
	}
	ecef := PosCEPToECEF(cep, testInstant, &nut)
	if !scalar.EqualWithinRel(ecef.Norm(), want, 1e-12) {
		t.Errorf("|ECEF| = %f, want %f", ecef.Norm(), want)
	}
}

func TestOSVJ2000ToECEFVelocityCrossTerm(t *testing.T) {
	nut := testNutation(testInstant)
	osv := model.OSV{
		Position: model.Vec3{X: 7000e3, Y: 1200e3, Z: -300e3},
		Velocity: model.Vec3{},
		Time:     testInstant,
		Frame:    model.FrameJ2000,
	}

	ecef := OSVJ2000ToECEF(osv, &nut)
	if ecef.Frame != model.FrameECEF {
		t.Fatalf("output frame = %v, want ECEF", ecef.Frame)
	}

	// With zero inertial velocity the Earth-fixed velocity is −ω × r.
	r := ecef.Position
	want := model.Vec3{X: OmegaEarth * r.Y, Y: -OmegaEarth * r.X}
	if !vecsClose(ecef.Velocity, want, 1e-9) {
		t.Fatalf("velocity = %+v, want %+v", ecef.Velocity, want)
	}
}

func TestOSVJ2000ToCEPRejectsWrongFrame(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on ECEF-tagged input")
		}
	}()
	OSVJ2000ToCEP(model.OSV{Frame: model.FrameECEF, Time: testInstant}, nil)
}

func TestOSVTEMEToJ2000Retags(t *testing.T) {
	in := model.OSV{
		Position: model.Vec3{X: 1, Y: 2, Z: 3},
		Velocity: model.Vec3{X: 4, Y: 5, Z: 6},
		Time:     testInstant,
		Frame:    model.FrameTEME,
	}
	out := OSVTEMEToJ2000(in)
	if out.Frame != model.FrameJ2000 {
		t.Fatalf("frame = %v, want J2000", out.Frame)
	}
	if out.Position != in.Position || out.Velocity != in.Velocity {
		t.Fatalf("state mutated: %+v", out)
	}
}

func TestNilNutationRecomputed(t *testing.T) {
	nut := testNutation(testInstant)
	r := model.Vec3{X: 6524.834e3, Y: 6862.875e3, Z: 6448.296e3}

	withNut := PosJ2000ToCEP(r, testInstant, &nut)
	withNil := PosJ2000ToCEP(r, testInstant, nil)
	if !vecsClose(withNut, withNil, 1e-9) {
		t.Fatalf("nil-nutation path = %+v, want %+v", withNil, withNut)
	}
}

func TestPrecessionVanishesAtJ2000(t *testing.T) {
	zeta, theta, z := precessionAngles(0)
	if zeta != 0 || theta != 0 || z != 0 {
		t.Fatalf("precession angles at T=0 = %g %g %g, want zeros", zeta, theta, z)
	}
}

func TestGeodeticRoundTrip(t *testing.T) {
	cases := []model.Geodetic{
		{LatDeg: 0, LonDeg: 0, AltM: 0},
		{LatDeg: 51.6, LonDeg: -122.3, AltM: 420e3},
		{LatDeg: -33.9, LonDeg: 151.2, AltM: 35786e3},
		{LatDeg: 89.0, LonDeg: 45.0, AltM: 800e3},
	}

	for _, g := range cases {
		back := CartToWGS84(WGS84ToCart(g))
		if !scalar.EqualWithinAbs(back.LatDeg, g.LatDeg, 1e-6) {
			t.Errorf("lat = %f, want %f", back.LatDeg, g.LatDeg)
		}
		if !scalar.EqualWithinAbs(back.LonDeg, g.LonDeg, 1e-6) {
			t.Errorf("lon = %f, want %f", back.LonDeg, g.LonDeg)
		}
		if !scalar.EqualWithinAbs(back.AltM, g.AltM, 1e-2) {
			t.Errorf("alt = %f, want %f", back.AltM, g.AltM)
		}
	}
}

func TestCartToWGS84Equator(t *testing.T) {
	g := CartToWGS84(model.Vec3{X: 6378137.0})
	if !scalar.EqualWithinAbs(g.LatDeg, 0, 1e-9) || !scalar.EqualWithinAbs(g.LonDeg, 0, 1e-9) {
		t.Fatalf("lat/lon = %f/%f, want 0/0", g.LatDeg, g.LonDeg)
	}
	if !scalar.EqualWithinAbs(g.AltM, 0, 1e-6) {
		t.Fatalf("alt = %f, want 0", g.AltM)
	}
}

func TestCartToWGS84Pole(t *testing.T) {
	// Semi-minor axis: a(1-f).
	b := 6378137.0 * (1 - 1.0/298.257223563)
	g := CartToWGS84(model.Vec3{Z: b})
	if !scalar.EqualWithinAbs(g.LatDeg, 90, 1e-6) {
		t.Fatalf("lat = %f, want 90", g.LatDeg)
	}
	if !scalar.EqualWithinAbs(g.AltM, 0, 1e-3) {
		t.Fatalf("alt = %f, want 0", g.AltM)
	}
}

func TestSubSolarPointPlausible(t *testing.T) {
	// At the November instant the Sun stands over the southern tropics on the
	// day side.
	g := SubSolarPoint(testInstant, nil)
	if g.LatDeg < -23.5 || g.LatDeg > 0 {
		t.Errorf("sub-solar lat = %f, want within (-23.5, 0) in early November", g.LatDeg)
	}
	if g.LonDeg < -180 || g.LonDeg > 180 {
		t.Errorf("sub-solar lon = %f, want within [-180, 180]", g.LonDeg)
	}
	// Altitude is the Sun's own height above the ellipsoid, about one AU.
	if g.AltM < 1.3e11 || g.AltM > 1.6e11 {
		t.Errorf("sun altitude = %g, want about 1.5e11", g.AltM)
	}
}
