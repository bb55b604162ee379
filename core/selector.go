package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/signalsfoundry/orbitviz/kepler"
	"github.com/signalsfoundry/orbitviz/model"
)

// ErrNoSource reports that the configured data source has nothing to serve:
// an empty roster, no telemetry received yet, no table loaded, or no manual
// vector entered.
var ErrNoSource = errors.New("core: data source unavailable")

// TelemetryFeed holds the most recent downlinked state vector and the
// Keplerian elements derived from it. Between telemetry updates the primary
// is advanced by element propagation.
type TelemetryFeed struct {
	mu       sync.RWMutex
	last     model.OSV
	elements model.Elements
	valid    bool
}

// Ingest records a telemetry state vector and re-derives its elements.
// A state the element derivation rejects is discarded and reported.
func (f *TelemetryFeed) Ingest(osv model.OSV) error {
	el, err := kepler.FromOSV(osv)
	if err != nil {
		return fmt.Errorf("core: telemetry state rejected: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = osv
	f.elements = el
	f.valid = true
	return nil
}

// StateAt propagates the latest telemetry elements to the instant.
func (f *TelemetryFeed) StateAt(t time.Time) (model.OSV, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.valid {
		return model.OSV{}, fmt.Errorf("%w: no telemetry received", ErrNoSource)
	}
	return kepler.Propagate(f.elements, t)
}

// PrimaryState produces the single normalized state vector for the primary
// target at the instant, from whichever of the four mutually exclusive data
// sources is selected. With the Keplerian override enabled, elements are
// derived once from the source at its reference epoch and the state is
// regenerated by element propagation instead of re-querying the source.
func PrimaryState(sim *SimulationContext, t time.Time) (model.OSV, error) {
	switch sim.Opts.Source {
	case model.SourceTelemetry:
		if sim.Telemetry == nil {
			return model.OSV{}, fmt.Errorf("%w: no telemetry feed", ErrNoSource)
		}
		return sim.Telemetry.StateAt(t)

	case model.SourceEphemerisTable:
		if sim.Table == nil {
			return model.OSV{}, fmt.Errorf("%w: no ephemeris table loaded", ErrNoSource)
		}
		return sim.Table.StateAt(t)

	case model.SourceTwoLineElements:
		primary := sim.Roster.Primary()
		if primary == nil {
			return model.OSV{}, fmt.Errorf("%w: empty roster", ErrNoSource)
		}
		if sim.Opts.KeplerOverride {
			return memberKeplerState(primary, t)
		}
		return primary.Adapter.StateAt(t)

	case model.SourceManualVector:
		if sim.Manual == nil {
			return model.OSV{}, fmt.Errorf("%w: no manual vector entered", ErrNoSource)
		}
		el, err := kepler.FromOSV(*sim.Manual)
		if err != nil {
			return model.OSV{}, err
		}
		return kepler.Propagate(el, t)

	default:
		return model.OSV{}, fmt.Errorf("%w: unknown source %v", ErrNoSource, sim.Opts.Source)
	}
}

// memberKeplerState derives and caches the member's elements at the TLE
// epoch on first use, then propagates them to the instant.
func memberKeplerState(m *Member, t time.Time) (model.OSV, error) {
	if !m.hasElements {
		epochState, err := m.Adapter.StateAt(m.Sat.Epoch)
		if err != nil {
			return model.OSV{}, err
		}
		el, err := kepler.FromOSV(epochState)
		if err != nil {
			return model.OSV{}, err
		}
		m.elements = el
		m.hasElements = true
		m.Sat.Elements = el
	}
	return kepler.Propagate(m.elements, t)
}
