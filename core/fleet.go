package core

import (
	"context"
	"time"

	"github.com/signalsfoundry/orbitviz/frames"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/model"
)

// SatState is one satellite's per-frame output: the state in the display
// frame plus the matching geodetic position for ground-track rendering.
type SatState struct {
	Name          string         `json:"name"`
	CatalogNumber int            `json:"catalog_number"`
	State         model.OSV      `json:"state"`
	Geodetic      model.Geodetic `json:"geodetic"`
	Color         string         `json:"color"`
}

// FleetStates propagates every roster member to the same instant and
// converts each into the display frame. A member whose propagation fails is
// omitted from the output for this frame, logged, and counted; one failure
// never aborts the batch. The returned slice preserves roster order for the
// members that succeeded.
func FleetStates(ctx context.Context, sim *SimulationContext, t time.Time, nut *model.Nutation) []SatState {
	out := make([]SatState, 0, sim.Roster.Len())
	for _, m := range sim.Roster.Members() {
		st, err := memberState(sim, m, t, nut)
		if err != nil {
			logging.WithSatellite(sim.Log, m.Sat.Name, m.Sat.CatalogNumber).
				Warn(ctx, "satellite skipped this frame", logging.String("error", err.Error()))
			sim.Metrics.RecordFailure("propagation")
			continue
		}
		out = append(out, st)
	}
	return out
}

// memberState propagates one member and fills in display-frame state and
// geodetic position. The member's satellite record is updated in place.
func memberState(sim *SimulationContext, m *Member, t time.Time, nut *model.Nutation) (SatState, error) {
	j2000, err := m.Adapter.StateAt(t)
	if err != nil {
		return SatState{}, err
	}

	ecef := frames.OSVJ2000ToECEF(j2000, nut)
	geo := frames.CartToWGS84(ecef.Position)

	display := j2000
	if sim.Opts.DisplayFrame == model.FrameECEF {
		display = ecef
	}

	m.Sat.Current = display
	m.Sat.Geodetic = geo

	return SatState{
		Name:          m.Sat.Name,
		CatalogNumber: m.Sat.CatalogNumber,
		State:         display,
		Geodetic:      geo,
		Color:         m.Sat.Color,
	}, nil
}
