// Package aggregate reduces repeated trials of one configuration into
// per-field medians.
package aggregate

import (
	"github.com/montanaflynn/stats"

	"github.com/signalnine/gridbench/internal/result"
)

// Reduce folds the repeat set for one thread count into a ConfigResult. Each
// field's median is taken over the trials where that field is defined; a
// field with no defined values stays undefined. Fields are independent: a
// trial missing its internal timer still contributes its wall time.
func Reduce(threads int, samples []result.Sample) result.ConfigResult {
	return result.ConfigResult{
		Threads:    threads,
		WallS:      Median(field(samples, func(s result.Sample) float64 { return s.WallS })),
		AppS:       Median(field(samples, func(s result.Sample) float64 { return s.AppS })),
		MaxRSSKB:   Median(field(samples, func(s result.Sample) float64 { return s.MaxRSSKB })),
		HC:         Median(field(samples, func(s result.Sample) float64 { return s.HC })),
		HP:         Median(field(samples, func(s result.Sample) float64 { return s.HP })),
		Speedup:    result.Undefined(),
		Efficiency: result.Undefined(),
	}
}

// Median is the middle value of the defined subset of vals, averaging the two
// middle values for even counts. An empty or all-undefined input yields
// Undefined.
func Median(vals []float64) float64 {
	defined := vals[:0:0]
	for _, v := range vals {
		if result.Defined(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return result.Undefined()
	}
	m, err := stats.Median(defined)
	if err != nil {
		return result.Undefined()
	}
	return m
}

func field(samples []result.Sample, get func(result.Sample) float64) []float64 {
	vals := make([]float64, len(samples))
	for i, s := range samples {
		vals[i] = get(s)
	}
	return vals
}
