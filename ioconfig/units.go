package ioconfig

import "strconv"

// Units carries the four independent rescaling factors named in the
// config schema. (Acceleration is derived, kept explicit here because
// the config schema writes it out rather than deriving it on load).
type Units struct {
	Length       float64
	Velocity     float64
	Energy       float64
	Time         float64
	Acceleration float64
}

// DefaultUnits is the reduced-unit system (every factor 1) assumed when
// a <Units> block is absent.
var DefaultUnits = Units{Length: 1, Velocity: 1, Energy: 1, Time: 1, Acceleration: 1}

// ParseUnits reads a <Units> node's attributes, falling back to
// DefaultUnits for any factor left unspecified.
func ParseUnits(n *Node) (Units, error) {
	u := DefaultUnits
	for _, pair := range []struct {
		name string
		dst  *float64
	}{
		{"unitLength", &u.Length},
		{"unitVelocity", &u.Velocity},
		{"unitEnergy", &u.Energy},
		{"unitTime", &u.Time},
		{"unitAcceleration", &u.Acceleration},
	} {
		v, ok := n.Attr(pair.name)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return u, newConfigErr(n, "attribute %q is not a number: %q", pair.name, v)
		}
		*pair.dst = f
	}
	return u, nil
}

// RescaleLength converts a value expressed in Units u to reduced
// (internal) units.
func (u Units) RescaleLength(v float64) float64 { return v * u.Length }

// RescaleVelocity converts a value expressed in Units u to reduced units.
func (u Units) RescaleVelocity(v float64) float64 { return v * u.Velocity }

// RescaleEnergy converts a value expressed in Units u to reduced units.
func (u Units) RescaleEnergy(v float64) float64 { return v * u.Energy }

// RescaleTime converts a value expressed in Units u to reduced units.
func (u Units) RescaleTime(v float64) float64 { return v * u.Time }
