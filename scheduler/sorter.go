// Package scheduler holds the one canonical future-event slot per
// particle plus the pluggable sorter that finds the global minimum
// among those slots. Staleness is detected by comparing the particle's
// clock at prediction time against its current clock — no explicit
// invalidation list is kept.
package scheduler

import "github.com/edmdsim/dynamogo/event"

// Stamped pairs a predicted event with the predicting particle's
// LocalClock at the moment it was predicted. If the particle has since
// been updated (its LocalClock moved on) the stamp no longer matches and
// the event is stale.
type Stamped struct {
	Event event.Event
	Clock float64
	// PartnerClock is the partner particle's LocalClock at prediction
	// time, meaningful only when Event.Kind == event.Interaction.
	PartnerClock float64
}

// Sorter is the pluggable component that finds the global minimum among
// the per-particle slots. Implementations own no particle-validity
// logic; that lives in Scheduler.
type Sorter interface {
	// Push installs or replaces the slot for s.Event.Particle.
	Push(s Stamped)
	// PopMin removes and returns the globally earliest slot.
	PopMin() (Stamped, bool)
	// PeekMin returns the globally earliest slot without removing it.
	PeekMin() (Stamped, bool)
	// Remove clears any slot held for the given particle, a no-op if
	// none is present.
	Remove(particle int)
	// Len reports how many particles currently hold a slot.
	Len() int
}
