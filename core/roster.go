package core

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/signalsfoundry/orbitviz/ephemeris"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/tle"
)

// Member pairs a tracked satellite with its external propagator handle and
// the lazily derived Keplerian elements used by the override path.
type Member struct {
	Sat     *model.Satellite
	Adapter *ephemeris.Adapter

	elements    model.Elements
	hasElements bool
}

// Roster is the active satellite fleet. It is replaced wholesale when a new
// TLE file becomes active, never incrementally merged.
type Roster struct {
	members []*Member
}

// Members returns the roster in load order. The first member is the primary
// target.
func (r *Roster) Members() []*Member { return r.members }

// Len returns the roster size.
func (r *Roster) Len() int { return len(r.members) }

// Primary returns the primary target, or nil for an empty roster.
func (r *Roster) Primary() *Member {
	if len(r.members) == 0 {
		return nil
	}
	return r.members[0]
}

// EarliestEpoch returns the earliest TLE epoch in the roster; the zero time
// for an empty roster.
func (r *Roster) EarliestEpoch() time.Time {
	var earliest time.Time
	for _, m := range r.members {
		if earliest.IsZero() || m.Sat.Epoch.Before(earliest) {
			earliest = m.Sat.Epoch
		}
	}
	return earliest
}

// BuildRoster creates a roster from parsed TLE entries. Entries the external
// propagator rejects are dropped with a warning; the rest still load.
func BuildRoster(entries []tle.Entry, log logging.Logger) *Roster {
	if log == nil {
		log = logging.Noop()
	}
	ctx := context.Background()

	members := make([]*Member, 0, len(entries))
	for _, e := range entries {
		adapter, err := ephemeris.NewAdapter(e.Line1, e.Line2)
		if err != nil {
			logging.WithSatellite(log, e.Name, e.CatalogNumber).
				Warn(ctx, "dropping satellite from roster", logging.String("error", err.Error()))
			continue
		}
		members = append(members, &Member{
			Sat: &model.Satellite{
				Name:          e.Name,
				CatalogNumber: e.CatalogNumber,
				Line1:         e.Line1,
				Line2:         e.Line2,
				Epoch:         e.Epoch,
				Color:         colorFor(e.Name),
			},
			Adapter: adapter,
		})
	}
	return &Roster{members: members}
}

// rosterPalette holds the display colors cycled across the fleet.
var rosterPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

// colorFor assigns a stable display color from the satellite name.
func colorFor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return rosterPalette[int(h.Sum32())%len(rosterPalette)]
}
