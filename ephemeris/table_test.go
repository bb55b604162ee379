package ephemeris

import (
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/orbitviz/model"
)

const sampleTable = `# sample ephemeris, km and km/s
2023-11-01T00:00:00Z 7000 0 0 0 7.5 0
2023-11-01T00:01:00Z 7000 450 0 0 7.5 0

2023-11-01T00:02:00Z 7000 900 0 0 7.5 0
`

func TestParseTableSkipsCommentsAndBlanks(t *testing.T) {
	tb, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if tb.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tb.Len())
	}

	first, last := tb.Span()
	if !first.Equal(time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first = %v", first)
	}
	if !last.Equal(time.Date(2023, time.November, 1, 0, 2, 0, 0, time.UTC)) {
		t.Errorf("last = %v", last)
	}
}

func TestParseTableSortsRows(t *testing.T) {
	shuffled := `2023-11-01T00:02:00Z 7000 900 0 0 7.5 0
2023-11-01T00:00:00Z 7000 0 0 0 7.5 0
2023-11-01T00:01:00Z 7000 450 0 0 7.5 0
`
	tb, err := ParseTable(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	first, _ := tb.Span()
	if first.Minute() != 0 {
		t.Fatalf("first epoch minute = %d, want 0", first.Minute())
	}
}

func TestParseTableErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"only comments", "# nothing here\n"},
		{"wrong field count", "2023-11-01T00:00:00Z 7000 0 0\n"},
		{"bad epoch", "yesterday 7000 0 0 0 7.5 0\n"},
		{"bad value", "2023-11-01T00:00:00Z 7000 zero 0 0 7.5 0\n"},
	}
	for _, tc := range cases {
		if _, err := ParseTable(strings.NewReader(tc.in)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestTableStateAtInterpolates(t *testing.T) {
	tb, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	// Halfway between the first two rows: Y halfway between 0 and 450 km.
	at := time.Date(2023, time.November, 1, 0, 0, 30, 0, time.UTC)
	osv, err := tb.StateAt(at)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}
	if osv.Frame != model.FrameJ2000 {
		t.Fatalf("Frame = %v, want J2000", osv.Frame)
	}
	if !scalar.EqualWithinAbs(osv.Position.Y, 225e3, 1e-6) {
		t.Errorf("Y = %f, want 225000", osv.Position.Y)
	}
	if !scalar.EqualWithinAbs(osv.Position.X, 7000e3, 1e-6) {
		t.Errorf("X = %f, want 7000000", osv.Position.X)
	}
	if !scalar.EqualWithinAbs(osv.Velocity.Y, 7500, 1e-9) {
		t.Errorf("Vy = %f, want 7500", osv.Velocity.Y)
	}
}

func TestTableStateAtClamps(t *testing.T) {
	tb, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	first, last := tb.Span()

	before, err := tb.StateAt(first.Add(-time.Hour))
	if err != nil {
		t.Fatalf("StateAt before span: %v", err)
	}
	if before.Position.Y != 0 {
		t.Errorf("before-span Y = %f, want first row", before.Position.Y)
	}

	after, err := tb.StateAt(last.Add(time.Hour))
	if err != nil {
		t.Fatalf("StateAt after span: %v", err)
	}
	if after.Position.Y != 900e3 {
		t.Errorf("after-span Y = %f, want last row", after.Position.Y)
	}
}
