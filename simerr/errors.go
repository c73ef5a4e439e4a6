// Package simerr defines the error taxonomy: ConfigError,
// InvariantViolation, UnsupportedForThisDynamics and NumericOverflow.
// Predictors return sentinel times on failure; resolvers and the loader
// return or panic with these types so the top-level command can
// distinguish a configuration mistake from a numerical fatal.
package simerr

import "fmt"

// ConfigError reports a problem found while loading a configuration or
// state file: a missing attribute, an unsupported combination, or a
// value out of its documented range.
type ConfigError struct {
	Where string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Where, e.Msg)
}

// NewConfigError builds a ConfigError.
func NewConfigError(where, format string, args ...any) *ConfigError {
	return &ConfigError{Where: where, Msg: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a broken engine invariant: a stale event
// that reached execution, a stored clock disagreeing with the expected
// value, a binary particle id out of sequence, or a negative predicted
// time beyond the numeric slack. It is not recoverable; the event loop
// panics with it so the caller can write a crash-dump before exiting.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

// Violate panics with an InvariantViolation; it exists so call sites read
// as a single statement instead of `panic(&InvariantViolation{...})`.
func Violate(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// UnsupportedForThisDynamics reports a predictor or resolver invoked on a
// dynamics variant that does not implement it — a configuration error in
// spirit, surfaced as a panic because it can only be
// triggered by a misconfigured simulation, never by valid runtime state.
type UnsupportedForThisDynamics struct {
	Dynamics  string
	Operation string
}

func (e *UnsupportedForThisDynamics) Error() string {
	return fmt.Sprintf("%s is not implemented for %s dynamics", e.Operation, e.Dynamics)
}

// Unsupported panics with an UnsupportedForThisDynamics.
func Unsupported(dynamics, operation string) {
	panic(&UnsupportedForThisDynamics{Dynamics: dynamics, Operation: operation})
}

// NumericOverflow marks a predicted time that came back infinite or NaN.
// The event loop in package simulation neither raises it nor counts
// recurrences; cmd/edmd maps a NumericOverflow panic that reaches its
// top level to its own exit code.
type NumericOverflow struct {
	ParticleID int
}

func (e *NumericOverflow) Error() string {
	return fmt.Sprintf("numeric overflow predicting next event for particle %d", e.ParticleID)
}
