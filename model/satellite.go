package model

import "time"

// DataSource selects where the primary target's state comes from each frame.
type DataSource int

const (
	SourceUnknown DataSource = iota
	SourceTelemetry
	SourceEphemerisTable
	SourceTwoLineElements
	SourceManualVector
)

func (s DataSource) String() string {
	switch s {
	case SourceTelemetry:
		return "telemetry"
	case SourceEphemerisTable:
		return "ephemeris-table"
	case SourceTwoLineElements:
		return "tle"
	case SourceManualVector:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseDataSource maps an option string to a DataSource.
func ParseDataSource(s string) (DataSource, bool) {
	switch s {
	case "telemetry":
		return SourceTelemetry, true
	case "ephemeris-table", "table":
		return SourceEphemerisTable, true
	case "tle":
		return SourceTwoLineElements, true
	case "manual", "manual-vector":
		return SourceManualVector, true
	default:
		return SourceUnknown, false
	}
}

// Satellite is one tracked body. The roster is rebuilt wholesale when a new
// TLE file is loaded; entries are mutated in place once per frame by
// re-propagation.
type Satellite struct {
	Name          string
	CatalogNumber int
	Line1         string
	Line2         string
	Epoch         time.Time // TLE reference epoch

	// Current holds the most recent propagated state in the display frame;
	// Geodetic the matching WGS84 position. Both are rewritten every frame.
	Current  OSV
	Elements Elements
	Geodetic Geodetic

	// Color is a stable display hint derived from the satellite name.
	Color string
}
