// Package core drives the once-per-frame orbit determination pipeline: it
// selects a data source for the primary target, propagates the secondary
// fleet against the same instant, and converts everything into the frame
// requested for display.
package core

import (
	"github.com/signalsfoundry/orbitviz/ephemeris"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/internal/observability"
	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/tle"
	"github.com/signalsfoundry/orbitviz/timectrl"
)

// Options is the configuration surface read once per frame. None of these
// change mid-frame.
type Options struct {
	// Source selects where the primary target's state comes from.
	Source model.DataSource
	// DisplayFrame is FrameJ2000 (inertial) or FrameECEF (earth-fixed).
	DisplayFrame model.Frame
	// KeplerOverride propagates the primary with Keplerian elements derived
	// from the source state instead of re-querying the source each frame.
	KeplerOverride bool
	// FreeRunning keeps the clock on the live wall clock when a TLE set is
	// loaded, instead of locking to the set's earliest epoch.
	FreeRunning bool
}

// SimulationContext bundles the mutable simulation state: the clock, the
// active roster, the time-sliced file set, and the per-frame options. It is
// passed explicitly to every per-frame function; there are no package-level
// globals. All mutation happens at well-defined points inside the single
// per-frame update.
type SimulationContext struct {
	Clock  *timectrl.Clock
	Files  *tle.FileSet
	Roster *Roster

	// Table backs the ephemeris-table source when selected.
	Table *ephemeris.Table
	// Telemetry backs the telemetry source when selected.
	Telemetry *TelemetryFeed
	// Manual backs the manual-vector source when selected.
	Manual *model.OSV

	Opts    Options
	Log     logging.Logger
	Metrics *observability.EngineCollector
}

// NewSimulationContext constructs a context with an idle clock and empty
// roster. Nil logger and metrics degrade to no-ops.
func NewSimulationContext(log logging.Logger, metrics *observability.EngineCollector) *SimulationContext {
	if log == nil {
		log = logging.Noop()
	}
	return &SimulationContext{
		Clock:   timectrl.New(),
		Roster:  &Roster{},
		Opts:    Options{Source: model.SourceTwoLineElements, DisplayFrame: model.FrameJ2000},
		Log:     log,
		Metrics: metrics,
	}
}
