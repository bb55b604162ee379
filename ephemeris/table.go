package ephemeris

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

// Row is one sampled state in an uploaded ephemeris table.
type Row struct {
	Epoch    time.Time
	Position model.Vec3 // metres, inertial
	Velocity model.Vec3 // m/s
}

// Table is a time-ordered ephemeris table. States between samples are
// obtained by linear interpolation; requests outside the covered span clamp
// to the first or last row.
type Table struct {
	rows []Row
}

// ParseTable reads an OEM-style plain-text ephemeris: one record per line,
// `<RFC3339 epoch> x y z vx vy vz` with kilometres and kilometres per
// second, `#` comments and blank lines ignored. Rows are sorted by epoch.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var rows []Row
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("ephemeris: line %d: want 7 fields, got %d", lineNo, len(fields))
		}
		epoch, err := time.Parse(time.RFC3339, fields[0])
		if err != nil {
			return nil, fmt.Errorf("ephemeris: line %d: bad epoch: %w", lineNo, err)
		}
		var vals [6]float64
		for i, f := range fields[1:] {
			vals[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("ephemeris: line %d: bad value %q: %w", lineNo, f, err)
			}
		}
		rows = append(rows, Row{
			Epoch:    epoch.UTC(),
			Position: model.Vec3{X: vals[0] * kmToM, Y: vals[1] * kmToM, Z: vals[2] * kmToM},
			Velocity: model.Vec3{X: vals[3] * kmToM, Y: vals[4] * kmToM, Z: vals[5] * kmToM},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ephemeris: reading table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ephemeris: empty table")
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Epoch.Before(rows[j].Epoch) })
	return &Table{rows: rows}, nil
}

// Len returns the number of rows.
func (tb *Table) Len() int { return len(tb.rows) }

// Span returns the first and last epoch covered.
func (tb *Table) Span() (time.Time, time.Time) {
	return tb.rows[0].Epoch, tb.rows[len(tb.rows)-1].Epoch
}

// StateAt returns the interpolated state at t, clamped to the table span.
func (tb *Table) StateAt(t time.Time) (model.OSV, error) {
	t = t.UTC()
	first, last := tb.Span()
	switch {
	case !t.After(first):
		return tb.rowOSV(0, t), nil
	case !t.Before(last):
		return tb.rowOSV(len(tb.rows)-1, t), nil
	}

	hi := sort.Search(len(tb.rows), func(i int) bool { return tb.rows[i].Epoch.After(t) })
	lo := hi - 1
	a, b := tb.rows[lo], tb.rows[hi]

	span := b.Epoch.Sub(a.Epoch).Seconds()
	if span <= 0 {
		return tb.rowOSV(lo, t), nil
	}
	f := t.Sub(a.Epoch).Seconds() / span

	return model.OSV{
		Position: lerp(a.Position, b.Position, f),
		Velocity: lerp(a.Velocity, b.Velocity, f),
		Time:     t,
		Frame:    model.FrameJ2000,
	}, nil
}

func (tb *Table) rowOSV(i int, t time.Time) model.OSV {
	return model.OSV{
		Position: tb.rows[i].Position,
		Velocity: tb.rows[i].Velocity,
		Time:     t,
		Frame:    model.FrameJ2000,
	}
}

func lerp(a, b model.Vec3, f float64) model.Vec3 {
	return a.Add(b.Sub(a).Scale(f))
}
