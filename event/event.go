// Package event defines the Event tuple and the total order events are
// executed in.
package event

import "fmt"

// Kind distinguishes the five event categories. The ordinal value is
// also the tie-break order used when two events land at exactly the
// same time: INTERACTION < CELL < LOCAL < GLOBAL < SYSTEM.
type Kind int

const (
	Interaction Kind = iota
	Cell
	Local
	Global
	System
)

func (k Kind) String() string {
	switch k {
	case Interaction:
		return "INTERACTION"
	case Cell:
		return "CELL"
	case Local:
		return "LOCAL"
	case Global:
		return "GLOBAL"
	case System:
		return "SYSTEM"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a tuple (particle_id, absolute_time, kind, payload). Payload
// carries kind-specific data: the partner particle id for INTERACTION,
// the transit axis for CELL, the local id for LOCAL, nothing for SYSTEM.
type Event struct {
	Particle int
	Time     float64
	Kind     Kind
	Payload  int
}

// Less implements the total order: time first, then the smaller
// particle id, then the kind ordinal.
func Less(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Particle != b.Particle {
		return a.Particle < b.Particle
	}
	return a.Kind < b.Kind
}

// Slack is the numeric tolerance events are allowed to disagree with
// the advancing global clock by.
const Slack = 1e-10
