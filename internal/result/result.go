package result

import "math"

// Undefined returns the in-memory representation of a missing measurement.
// Missing values are NaN in memory and empty cells on disk; every consumer
// must gate on Defined before doing arithmetic.
func Undefined() float64 {
	return math.NaN()
}

// Defined reports whether v holds an actual measurement.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Sample is one trial execution of the program under test. Immutable once
// returned by the runner; optional fields are Undefined when the program did
// not report them.
type Sample struct {
	WallS    float64 // wall clock measured by the harness
	AppS     float64 // program's own timer, parsed from output
	MaxRSSKB float64 // peak resident memory, kilobytes
	HC       float64 // correctness scalar hc
	HP       float64 // correctness scalar hp
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
}

// ConfigResult is the per-field median over one thread configuration's
// repeats. Speedup and Efficiency are filled in by the scaling analyzer once
// the serial baseline is known.
type ConfigResult struct {
	Threads    int
	WallS      float64
	AppS       float64
	MaxRSSKB   float64
	HC         float64
	HP         float64
	Speedup    float64
	Efficiency float64
}

// ScalingReport is the whole-run result: the serial baseline, one
// ConfigResult per thread count in ascending order, and the Amdahl serial
// fraction when the fit succeeded (Undefined otherwise). It round-trips
// through the results CSV, except for SerialFraction which is recomputed
// from the table on reload.
type ScalingReport struct {
	NGrid          int
	T1WallS        float64
	T1AppS         float64
	HC1            float64
	HP1            float64
	Configs        []ConfigResult
	SerialFraction float64
}
