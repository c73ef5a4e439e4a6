// Package simulation implements the event loop: extract the globally
// earliest non-stale event, dispatch it to the collaborator that owns
// its kind, re-predict and re-push that particle's next event, and
// repeat until a limit is hit. The loop's absolute-time ordering is
// owned by package scheduler; this package only orchestrates dispatch
// and lifecycle, borrowing akita's sim.VTimeInSec as its clock type
// (see DESIGN.md for why the broader sim.Engine/sim.Handler surface
// is not exercised).
package simulation

import (
	"context"
	"log/slog"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/edmdsim/dynamogo/cell"
	"github.com/edmdsim/dynamogo/event"
	"github.com/edmdsim/dynamogo/liouvillean"
	"github.com/edmdsim/dynamogo/local"
	"github.com/edmdsim/dynamogo/observer"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/scheduler"
	"github.com/edmdsim/dynamogo/simerr"
	"github.com/edmdsim/dynamogo/species"
)

// LevelEvent is a custom slog level between Debug and Info used for per-event
// tracing, following the teacher's convention of adding levels around
// slog.LevelInfo for volume-gated tracing (core/util.go LevelTrace).
const LevelEvent slog.Level = slog.LevelInfo - 2

// Clock is the simulation's absolute time type, aliased to akita's
// sim.VTimeInSec so simulation time prints and compares the way the
// teacher's akita-hosted components expect.
type Clock = sim.VTimeInSec

// Limits bounds a run.
type Limits struct {
	MaxEvents    uint64
	MaxWallClock time.Duration
	MaxSimTime   float64
}

func (l Limits) eventsExceeded(n uint64) bool {
	return l.MaxEvents != 0 && n >= l.MaxEvents
}

func (l Limits) wallClockExceeded(started time.Time) bool {
	return l.MaxWallClock != 0 && time.Since(started) >= l.MaxWallClock
}

func (l Limits) simTimeExceeded(now float64) bool {
	return l.MaxSimTime != 0 && now >= l.MaxSimTime
}

// Simulation is the engine context threading every collaborator
// together: particle store, species table, dynamics, the cell grid,
// locals, the scheduler, and the observer bus.
type Simulation struct {
	Particles *particle.Store
	Species   species.Table
	Dyn       liouvillean.Dynamics
	Grid      *cell.Grid
	Locals    []local.Local
	Sched     *scheduler.Scheduler
	Bus       *observer.Bus

	Now        Clock
	EventCount uint64
	Limits     Limits

	Log *slog.Logger

	overflows map[int]int
	started   time.Time
}

// Builder constructs a Simulation with the teacher's fluent value-
// receiver builder idiom (core/builder.go WithFreq/WithLogger).
type Builder struct {
	limits Limits
	log    *slog.Logger
}

// NewBuilder starts a Builder with the default logger.
func NewBuilder() Builder {
	return Builder{log: slog.Default()}
}

func (b Builder) WithLimits(l Limits) Builder {
	b.limits = l
	return b
}

func (b Builder) WithLogger(log *slog.Logger) Builder {
	b.log = log
	return b
}

// Build assembles a Simulation over the given particle store, species
// table, dynamics variant, cell grid, locals and scheduler.
func (b Builder) Build(
	ps *particle.Store,
	sp species.Table,
	dyn liouvillean.Dynamics,
	grid *cell.Grid,
	locals []local.Local,
	sched *scheduler.Scheduler,
	bus *observer.Bus,
) *Simulation {
	s := &Simulation{
		Particles: ps,
		Species:   sp,
		Dyn:       dyn,
		Grid:      grid,
		Locals:    locals,
		Sched:     sched,
		Bus:       bus,
		Limits:    b.limits,
		Log:       b.log,
		overflows: make(map[int]int),
	}

	// A CELL transit that brings a moving particle into a resident's
	// neighbourhood invalidates only the mover's own slot by construction
	// (it is re-predicted at the end of every Step). The resident's slot
	// was computed before this pair existed and never accounted for it,
	// so it must be re-predicted too or the resident's collision with the
	// newcomer can be missed entirely.
	s.Bus.OnNewNeighbour(func(_, resident int) {
		rp := s.Particles.Get(resident)
		s.Sched.PushEvent(rp, s.predict(rp))
	})

	return s
}

// localByID finds a registered local surface by id, or nil.
func (s *Simulation) localByID(id int) local.Local {
	for _, l := range s.Locals {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// predict computes p's next event across every collaborator (its
// neighbourhood's INTERACTION candidates, its CELL transit, and any
// LOCAL surfaces) and returns the earliest.
func (s *Simulation) predict(p *particle.Particle) event.Event {
	best := event.Event{Particle: p.ID, Time: liouvillean.NoEvent, Kind: event.System}

	s.Sched.GetParticleNeighbourhood(p, func(pid, qid int) {
		q := s.Particles.Get(qid)
		sigma := s.Species.Lookup(p.Species).Radius + s.Species.Lookup(q.Species).Radius
		dt, ok := s.Dyn.SphereSphereInRoot(p, q, float64(s.Now), sigma)
		if !ok {
			return
		}
		candidate := event.Event{Particle: p.ID, Time: float64(s.Now) + dt, Kind: event.Interaction, Payload: qid}
		if event.Less(candidate, best) {
			best = candidate
		}
	})

	if s.Grid != nil {
		if candidate := s.Grid.GetEvent(p, float64(s.Now)); event.Less(candidate, best) {
			best = candidate
		}
	}

	for _, l := range s.Locals {
		if candidate, ok := l.GetEvent(p, float64(s.Now), s.Dyn); ok {
			if event.Less(candidate, best) {
				best = candidate
			}
		}
	}

	return best
}

// FullUpdate re-predicts every particle's slot, used at startup and
// after any global rescaling.
func (s *Simulation) FullUpdate() {
	s.Sched.FullUpdate(s.Particles.All(), s.predict)
}

// Step extracts and executes exactly one event, returning the event
// executed and whether one was available.
func (s *Simulation) Step() (event.Event, bool, error) {
	isStale := scheduler.StaleByClock(s.Particles)
	ev, ok := s.Sched.PopNextEvent(isStale, s.predict)
	if !ok {
		return event.Event{}, false, nil
	}

	if ev.Time < float64(s.Now)-event.Slack {
		simerr.Violate("event for particle %d executed at %g before current clock %g", ev.Particle, ev.Time, float64(s.Now))
	}
	s.Now = Clock(ev.Time)

	p := s.Particles.Get(ev.Particle)

	switch ev.Kind {
	case event.Interaction:
		q := s.Particles.Get(ev.Payload)
		s.Dyn.Update(p, ev.Time)
		s.Dyn.Update(q, ev.Time)
		sigma := s.Species.Lookup(p.Species).Radius + s.Species.Lookup(q.Species).Radius
		delta := s.Dyn.ResolveSphereSphere(p, q, ev.Time, sigma, 1.0, s.Species.Mass)
		s.Bus.FireParticleUpdate(observer.ParticleUpdate{Kind: "interaction", Data: delta})
		s.Sched.PushEvent(q, s.predict(q))
	case event.Cell:
		tr := s.Grid.RunEvent(p, ev.Time)
		for _, pair := range tr.NewNeighbours {
			s.Bus.FireNewNeighbour(pair[0], pair[1])
		}
		for _, localID := range tr.NewLocals {
			s.Bus.FireNewLocal(p.ID, localID)
		}
		s.Bus.FireCellChange(p.ID, tr.OldCell)
	case event.Local:
		l := s.localByID(ev.Payload)
		if l == nil {
			simerr.Violate("event referenced unknown local id %d", ev.Payload)
		}
		delta := l.RunEvent(p, ev.Time, s.Dyn)
		s.Bus.FireParticleUpdate(observer.ParticleUpdate{Kind: "local:" + l.Name(), Data: delta})
	default:
		simerr.Violate("event loop cannot dispatch kind %s", ev.Kind)
	}

	s.Sched.PushEvent(p, s.predict(p))
	s.EventCount++

	if s.Log != nil {
		s.Log.Log(context.Background(), LevelEvent, "event",
			"particle", ev.Particle, "kind", ev.Kind.String(), "time", ev.Time)
	}

	return ev, true, nil
}

// Run drives Step until a configured limit is hit or the scheduler runs
// dry, returning the number of events executed.
func (s *Simulation) Run() (uint64, error) {
	s.started = time.Now()
	for {
		if s.Limits.eventsExceeded(s.EventCount) {
			return s.EventCount, nil
		}
		if s.Limits.wallClockExceeded(s.started) {
			return s.EventCount, nil
		}
		if s.Limits.simTimeExceeded(float64(s.Now)) {
			return s.EventCount, nil
		}

		_, ok, err := s.Step()
		if err != nil {
			return s.EventCount, err
		}
		if !ok {
			return s.EventCount, nil
		}
	}
}
