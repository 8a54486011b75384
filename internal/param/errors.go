package param

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeConfig is returned when min, max and step do not describe a
	// reachable sequence of values.
	ErrRangeConfig = errors.New("inconsistent parameter range")
	// ErrValue is returned when a value outside [min, max] is assigned.
	ErrValue = errors.New("parameter value out of range")
	// ErrName is returned for names that cannot appear in a frame key.
	ErrName = errors.New("invalid parameter name")
)

// RangeConfigError describes a range whose maximum cannot be reached from the
// minimum with the configured step. It matches ErrRangeConfig under errors.Is.
type RangeConfigError struct {
	Name    string
	Min     float64
	Max     float64
	Step    float64
	Count   int    // number of values the step produces
	Reached string // last value reached, formatted at comparison precision
	Reason  string // set instead of Count/Reached for structurally invalid ranges
}

func (e *RangeConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parameter %q: range (min: %g, max: %g, step: %g) is invalid: %s", e.Name, e.Min, e.Max, e.Step, e.Reason)
	}
	return fmt.Sprintf(
		"parameter %q: range (min: %g, max: %g, step: %g) does not fit: %d steps reach %s instead of %g",
		e.Name, e.Min, e.Max, e.Step, e.Count, e.Reached, e.Max,
	)
}

// Unwrap lets errors.Is match ErrRangeConfig.
func (e *RangeConfigError) Unwrap() error {
	return ErrRangeConfig
}
