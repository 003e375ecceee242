// Package scaling derives speedup, efficiency, and an Amdahl serial-fraction
// estimate from per-configuration median times and the serial baseline.
package scaling

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/signalnine/gridbench/internal/result"
)

var (
	// ErrInsufficientConfigs means the fit is under-determined: fewer than
	// two distinct thread counts have a defined parallel time.
	ErrInsufficientConfigs = errors.New("fewer than 2 distinct thread counts with defined times")

	// ErrSingularFit means the least squares system was numerically
	// singular or too ill-conditioned to trust.
	ErrSingularFit = errors.New("singular least squares system")
)

// Speedup is T1/Tp. Undefined when either time is undefined or Tp is not
// positive.
func Speedup(t1, tp float64) float64 {
	if !result.Defined(t1) || !result.Defined(tp) || tp <= 0 {
		return result.Undefined()
	}
	return t1 / tp
}

// Efficiency is Speedup/p, undefined under the same conditions and whenever
// p is not positive.
func Efficiency(t1, tp float64, p int) float64 {
	sp := Speedup(t1, tp)
	if !result.Defined(sp) || p <= 0 {
		return result.Undefined()
	}
	return sp / float64(p)
}

// Apply fills the derived Speedup and Efficiency fields on every config and
// stores the Amdahl estimate when the fit is well-posed. The fit error is
// returned so the caller can distinguish an under-determined sweep from a
// singular system; either way the report itself is complete.
func Apply(rep *result.ScalingReport) error {
	for i := range rep.Configs {
		c := &rep.Configs[i]
		c.Speedup = Speedup(rep.T1WallS, c.WallS)
		c.Efficiency = Efficiency(rep.T1WallS, c.WallS, c.Threads)
	}
	s, err := FitSerialFraction(rep.Configs, rep.T1WallS)
	if err != nil {
		rep.SerialFraction = result.Undefined()
		return err
	}
	rep.SerialFraction = s
	return nil
}

// FitSerialFraction fits Tp/T1 ≈ s + (1-s)/p by ordinary least squares over
// all configurations at once, using the design matrix columns [1, 1/p]. The
// intercept is the serial-fraction estimate.
func FitSerialFraction(configs []result.ConfigResult, t1 float64) (float64, error) {
	if !result.Defined(t1) || t1 <= 0 {
		return 0, ErrInsufficientConfigs
	}
	var ps, ys []float64
	distinct := make(map[int]bool)
	for _, c := range configs {
		if c.Threads <= 0 || !result.Defined(c.WallS) {
			continue
		}
		ps = append(ps, float64(c.Threads))
		ys = append(ys, c.WallS/t1)
		distinct[c.Threads] = true
	}
	if len(distinct) < 2 {
		return 0, ErrInsufficientConfigs
	}

	a := mat.NewDense(len(ps), 2, nil)
	for i, p := range ps {
		a.Set(i, 0, 1)
		a.Set(i, 1, 1/p)
	}
	b := mat.NewVecDense(len(ys), ys)

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}
	return beta.AtVec(0), nil
}
