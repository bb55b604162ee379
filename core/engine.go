package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/orbitviz/frames"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/timesys"
	"github.com/signalsfoundry/orbitviz/tle"
)

// FrameOutput is what one per-frame update hands to the display layer: the
// primary target's state in the requested frame, the fleet's states, and
// per-satellite geodetic coordinates. Primary is nil when the selected data
// source could not serve this frame.
type FrameOutput struct {
	Instant  time.Time      `json:"instant"`
	Primary  *SatState      `json:"primary,omitempty"`
	Fleet    []SatState     `json:"fleet"`
	SubSolar model.Geodetic `json:"sub_solar"`
}

// Engine runs the deterministic per-frame pipeline over a SimulationContext.
// Everything happens synchronously inside Update; there is no background
// mutation.
type Engine struct {
	sim    *SimulationContext
	tracer trace.Tracer
}

// NewEngine wraps a simulation context.
func NewEngine(sim *SimulationContext) *Engine {
	return &Engine{
		sim:    sim,
		tracer: otel.Tracer("github.com/signalsfoundry/orbitviz/core"),
	}
}

// Sim exposes the underlying context for configuration between frames.
func (e *Engine) Sim() *SimulationContext { return e.sim }

// LoadFileSet installs a time-sliced TLE file set, builds the roster from
// the earliest file, and seeds the clock from the roster's earliest epoch —
// unless the operator requested free-running from the wall clock. The
// previous roster and file set are replaced atomically; nothing in flight
// needs cancelling because the pipeline is synchronous.
func (e *Engine) LoadFileSet(ctx context.Context, files []tle.File) error {
	if len(files) == 0 {
		return fmt.Errorf("core: no TLE files to load")
	}
	fs := tle.NewFileSet(files)

	first := fs.File(0)
	roster, err := e.parseRoster(first)
	if err != nil {
		return err
	}

	e.sim.Files = fs
	e.sim.Roster = roster
	fs.Activate(first.Epoch)
	e.sim.Metrics.SetActiveFile(fs.Cursor())
	e.sim.Metrics.SetFleetSize(roster.Len())

	if e.sim.Opts.FreeRunning {
		e.sim.Clock.SetFreeRunning()
	} else {
		e.sim.Clock.LockToEpoch(roster.EarliestEpoch())
	}

	e.sim.Log.Info(ctx, "TLE file set loaded",
		logging.Int("files", fs.Len()),
		logging.Int("satellites", roster.Len()),
		logging.String("clock_mode", e.sim.Clock.Mode().String()),
	)
	return nil
}

func (e *Engine) parseRoster(f tle.File) (*Roster, error) {
	entries, err := tle.Parse(strings.NewReader(f.Content), e.sim.Log)
	if err != nil {
		return nil, fmt.Errorf("core: parsing %q: %w", f.Name, err)
	}
	return BuildRoster(entries, e.sim.Log), nil
}

// Update runs one frame of the pipeline: advance the clock's warp offset,
// swap the active TLE file if the instant crossed an epoch boundary in
// either direction, produce the primary state, propagate the fleet, and
// derive the sub-solar point. Nutation terms are computed once here and
// shared across the frame; they are never cached across frames because T
// changes continuously.
func (e *Engine) Update(ctx context.Context) (*FrameOutput, error) {
	ctx, span := e.tracer.Start(ctx, "engine.update")
	defer span.End()
	start := time.Now()

	e.sim.Clock.Tick()
	t := e.sim.Clock.Now()
	if t.IsZero() {
		return nil, fmt.Errorf("core: clock is idle; load a TLE set or set a mode first")
	}
	span.SetAttributes(attribute.String("sim.instant", t.Format(time.RFC3339)))

	if e.sim.Files != nil && e.sim.Files.Len() > 0 {
		if file, changed := e.sim.Files.Activate(t); changed {
			roster, err := e.parseRoster(file)
			if err != nil {
				return nil, err
			}
			e.sim.Roster = roster
			e.sim.Metrics.SetActiveFile(e.sim.Files.Cursor())
			e.sim.Metrics.SetFleetSize(roster.Len())
			e.sim.Log.Info(ctx, "switched active TLE file",
				logging.Int("index", e.sim.Files.Cursor()),
				logging.String("file", file.Name),
				logging.Int("satellites", roster.Len()),
			)
		}
	}

	_, jt := timesys.JulianTime(t)
	nut := timesys.Nutation(timesys.JulianCenturies(jt))

	out := &FrameOutput{
		Instant:  t,
		SubSolar: frames.SubSolarPoint(t, &nut),
	}

	primary, err := PrimaryState(e.sim, t)
	if err != nil {
		// The primary simply does not appear this frame; the fleet still
		// propagates.
		e.sim.Log.Warn(ctx, "primary target unavailable", logging.String("error", err.Error()))
		e.sim.Metrics.RecordFailure("primary")
	} else {
		st := e.displayState(primary, &nut)
		out.Primary = &st
	}

	out.Fleet = FleetStates(ctx, e.sim, t, &nut)

	e.sim.Metrics.ObserveFrame(time.Since(start).Seconds())
	return out, nil
}

// displayState converts a normalized J2000 primary state into the display
// frame and fills in identity fields from the roster when available.
func (e *Engine) displayState(osv model.OSV, nut *model.Nutation) SatState {
	ecef := frames.OSVJ2000ToECEF(osv, nut)
	geo := frames.CartToWGS84(ecef.Position)

	display := osv
	if e.sim.Opts.DisplayFrame == model.FrameECEF {
		display = ecef
	}

	st := SatState{State: display, Geodetic: geo}
	if p := e.sim.Roster.Primary(); p != nil && e.sim.Opts.Source == model.SourceTwoLineElements {
		st.Name = p.Sat.Name
		st.CatalogNumber = p.Sat.CatalogNumber
		st.Color = p.Sat.Color
	}
	return st
}
