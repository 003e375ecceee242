// Package report turns a ScalingReport into the persisted artifact set:
// scaling curves, the correctness comparison table, the run summary, and the
// Amdahl estimate. Every artifact is independent and skips itself when its
// inputs are entirely undefined, so a degraded run still produces a complete
// report minus the affected files.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/signalnine/gridbench/internal/result"
)

// Opts carries the optional workload-size parameters. Throughput is derived
// only when both are supplied; -1 means not provided.
type Opts struct {
	Strikes int
	MDim    int
}

// Emit writes every applicable artifact for rep into outDir. Artifacts are
// independent: one failing does not stop the others, and all failures are
// reported together.
func Emit(rep *result.ScalingReport, outDir string, opts Opts) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	errs := []error{
		timeCurve(rep, outDir),
		speedupCurves(rep, outDir),
		efficiencyCurve(rep, outDir),
		memoryCurve(rep, outDir),
		writeCorrectnessTable(rep, outDir),
		writeSummary(rep, outDir),
		writeAmdahl(rep, outDir),
	}
	if opts.Strikes > 0 && opts.MDim >= 0 {
		errs = append(errs, throughputCurve(rep, outDir, opts.Strikes, opts.MDim))
	}
	return errors.Join(errs...)
}

// writeSummary reports the configuration with the strictly smallest median
// wall time, ties broken by smallest thread count.
func writeSummary(rep *result.ScalingReport, outDir string) error {
	configs := sortedConfigs(rep)
	best := -1
	for i, c := range configs {
		if !result.Defined(c.WallS) {
			continue
		}
		if best < 0 || c.WallS < configs[best].WallS {
			best = i
		}
	}
	if best < 0 || !result.Defined(rep.T1WallS) {
		log.Debug("skipping summary: no defined wall times")
		return nil
	}

	c := configs[best]
	sp := rep.T1WallS / c.WallS
	eff := c.Efficiency
	if !result.Defined(eff) {
		eff = sp / float64(c.Threads)
	}
	txt := fmt.Sprintf("Serial T1 (wall): %.3f s\n"+
		"Best parallel: p=%d, T_p=%.3f s\n"+
		"Speedup T1/Tp: %.2fx  |  Efficiency: %.2f\n",
		rep.T1WallS, c.Threads, c.WallS, sp, eff)
	return os.WriteFile(filepath.Join(outDir, "summary.txt"), []byte(txt), 0o644)
}

// writeCorrectnessTable lists per-thread hc/hp medians and their signed
// deltas from the serial baseline.
func writeCorrectnessTable(rep *result.ScalingReport, outDir string) error {
	any := result.Defined(rep.HC1) || result.Defined(rep.HP1)
	for _, c := range rep.Configs {
		any = any || result.Defined(c.HC) || result.Defined(c.HP)
	}
	if !any {
		log.Debug("skipping correctness table: no correctness scalars reported")
		return nil
	}

	var b strings.Builder
	b.WriteString("### Correctness (serial vs parallel medians)\n")
	fmt.Fprintf(&b, "Serial baseline: **hc = %s**, **hp = %s**.\n",
		cell(rep.HC1), cell(rep.HP1))
	b.WriteString("Values below are medians over repeats for each thread count.\n\n")
	b.WriteString("| Threads | hc (median) | Δhc | hp (median) | Δhp |\n")
	b.WriteString("|--------:|------------:|----:|------------:|----:|\n")
	for _, c := range sortedConfigs(rep) {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			c.Threads, cell(c.HC), delta(c.HC, rep.HC1), cell(c.HP), delta(c.HP, rep.HP1))
	}
	return os.WriteFile(filepath.Join(outDir, "correctness_table.md"), []byte(b.String()), 0o644)
}

// writeAmdahl persists the serial-fraction estimate; absent when no fit was
// produced.
func writeAmdahl(rep *result.ScalingReport, outDir string) error {
	if !result.Defined(rep.SerialFraction) {
		log.Debug("skipping amdahl artifact: no serial-fraction estimate")
		return nil
	}
	txt := fmt.Sprintf("Estimated serial fraction s ≈ %.4f\n", rep.SerialFraction)
	return os.WriteFile(filepath.Join(outDir, "amdahl.txt"), []byte(txt), 0o644)
}

func cell(v float64) string {
	if !result.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func delta(v, baseline float64) string {
	if !result.Defined(v) || !result.Defined(baseline) {
		return "n/a"
	}
	return fmt.Sprintf("%+.4f", v-baseline)
}

func sortedConfigs(rep *result.ScalingReport) []result.ConfigResult {
	configs := make([]result.ConfigResult, len(rep.Configs))
	copy(configs, rep.Configs)
	sort.Slice(configs, func(i, j int) bool { return configs[i].Threads < configs[j].Threads })
	return configs
}
