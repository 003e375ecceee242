package report

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalnine/gridbench/internal/result"
)

const plotWidth, plotHeight = 6 * vg.Inch, 4 * vg.Inch

func timeCurve(rep *result.ScalingReport, outDir string) error {
	pts := series(rep, func(c result.ConfigResult) float64 { return c.WallS })
	if len(pts) == 0 {
		log.Debug("skipping time curve: no defined wall times")
		return nil
	}
	p := newPlot(fmt.Sprintf("Strong Scaling (N=%d) — Wall Time", rep.NGrid), "Threads", "Time (s)")
	if err := addMeasured(p, pts, ""); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, filepath.Join(outDir, "time_vs_threads.png"))
}

// speedupCurves renders the three speedup views: the sweep-path measured
// curve and the two analyze-path variants (serial baseline and parallel p=1
// baseline). Each is plotted against the ideal linear line anchored at the
// first plotted point.
func speedupCurves(rep *result.ScalingReport, outDir string) error {
	serial := series(rep, func(c result.ConfigResult) float64 { return c.Speedup })
	if len(serial) > 0 {
		for _, name := range []string{"speedup.png", "speedup_vs_serial.png"} {
			title := fmt.Sprintf("Speedup (T1/Tp) (N=%d)", rep.NGrid)
			label := "Measured"
			if name == "speedup_vs_serial.png" {
				title = fmt.Sprintf("Speedup vs Serial Baseline (N=%d)", rep.NGrid)
				label = "Measured (baseline=serial)"
			}
			p := newPlot(title, "Threads", "Speedup (T_serial / T_p)")
			if err := addMeasured(p, serial, label); err != nil {
				return err
			}
			if err := addIdeal(p, serial); err != nil {
				return err
			}
			if err := p.Save(plotWidth, plotHeight, filepath.Join(outDir, name)); err != nil {
				return err
			}
		}
	} else {
		log.Debug("skipping speedup curves: no defined speedups")
	}

	// Parallel-baseline view: normalize to the p=1 parallel time so
	// Speedup(1)=1. Only meaningful when the sweep includes p=1.
	var t1p float64 = result.Undefined()
	for _, c := range rep.Configs {
		if c.Threads == 1 && result.Defined(c.WallS) {
			t1p = c.WallS
			break
		}
	}
	if !result.Defined(t1p) || t1p <= 0 {
		log.Debug("skipping parallel-baseline speedup: no p=1 configuration")
		return nil
	}
	pts := series(rep, func(c result.ConfigResult) float64 {
		if !result.Defined(c.WallS) || c.WallS <= 0 {
			return result.Undefined()
		}
		return t1p / c.WallS
	})
	if len(pts) == 0 {
		return nil
	}
	p := newPlot(fmt.Sprintf("Speedup vs Parallel p=1 (N=%d)", rep.NGrid), "Threads", "Speedup (T_p=1 / T_p)")
	if err := addMeasured(p, pts, "Measured (baseline=parallel p=1)"); err != nil {
		return err
	}
	if err := addIdeal(p, pts); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, filepath.Join(outDir, "speedup_parallel_baseline.png"))
}

func efficiencyCurve(rep *result.ScalingReport, outDir string) error {
	pts := series(rep, func(c result.ConfigResult) float64 { return c.Efficiency })
	if len(pts) == 0 {
		log.Debug("skipping efficiency curve: no defined efficiencies")
		return nil
	}
	p := newPlot(fmt.Sprintf("Efficiency (Speedup / p) (N=%d)", rep.NGrid), "Threads", "Efficiency")
	if err := addMeasured(p, pts, ""); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, filepath.Join(outDir, "efficiency.png"))
}

// memoryCurve plots peak RSS in megabytes; the artifact is omitted entirely
// when no configuration reported memory.
func memoryCurve(rep *result.ScalingReport, outDir string) error {
	pts := series(rep, func(c result.ConfigResult) float64 {
		if !result.Defined(c.MaxRSSKB) {
			return result.Undefined()
		}
		return c.MaxRSSKB / 1024.0
	})
	if len(pts) == 0 {
		log.Debug("skipping memory curve: no RSS measurements")
		return nil
	}
	p := newPlot(fmt.Sprintf("Memory vs Threads (N=%d) — Max RSS", rep.NGrid), "Threads", "Max RSS (MB)")
	if err := addMeasured(p, pts, ""); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, filepath.Join(outDir, "memory_vs_threads.png"))
}

// throughputCurve derives work units per second from the workload-size
// parameters: strikes × ngrid² × (mdim+1) units per run.
func throughputCurve(rep *result.ScalingReport, outDir string, strikes, mdim int) error {
	work := float64(strikes) * float64(rep.NGrid) * float64(rep.NGrid) * float64(mdim+1)
	pts := series(rep, func(c result.ConfigResult) float64 {
		if !result.Defined(c.WallS) || c.WallS <= 0 {
			return result.Undefined()
		}
		return work / c.WallS / 1e6
	})
	if len(pts) == 0 {
		log.Debug("skipping throughput curve: no defined wall times")
		return nil
	}
	p := newPlot(
		fmt.Sprintf("Throughput vs Threads (N=%d, strikes=%d, mRange=%d)", rep.NGrid, strikes, mdim),
		"Threads", "Throughput (million QP/s)")
	if err := addMeasured(p, pts, ""); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, filepath.Join(outDir, "throughput.png"))
}

// Throughput computes work units per second for one configuration; exposed
// for the analyze path's numbers to be checkable in isolation.
func Throughput(strikes, ngrid, mdim int, tp float64) float64 {
	if !result.Defined(tp) || tp <= 0 {
		return result.Undefined()
	}
	return float64(strikes) * float64(ngrid) * float64(ngrid) * float64(mdim+1) / tp
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func addMeasured(p *plot.Plot, pts plotter.XYs, label string) error {
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("building line: %w", err)
	}
	p.Add(l, s)
	if label != "" {
		p.Legend.Add(label, l, s)
	}
	return nil
}

// addIdeal draws the linear speedup line anchored at the first plotted
// point, dashed, over the same thread range.
func addIdeal(p *plot.Plot, measured plotter.XYs) error {
	if len(measured) == 0 {
		return nil
	}
	anchor := measured[0].X
	ideal := make(plotter.XYs, len(measured))
	for i, pt := range measured {
		ideal[i] = plotter.XY{X: pt.X, Y: pt.X / anchor}
	}
	l, err := plotter.NewLine(ideal)
	if err != nil {
		return fmt.Errorf("building ideal line: %w", err)
	}
	l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(l)
	p.Legend.Add("Ideal", l)
	return nil
}

// series collects (threads, value) pairs for defined values only, ascending
// by thread count.
func series(rep *result.ScalingReport, get func(result.ConfigResult) float64) plotter.XYs {
	var pts plotter.XYs
	for _, c := range sortedConfigs(rep) {
		v := get(c)
		if !result.Defined(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(c.Threads), Y: v})
	}
	return pts
}
