package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/signalnine/gridbench/internal/aggregate"
	"github.com/signalnine/gridbench/internal/config"
	"github.com/signalnine/gridbench/internal/report"
	"github.com/signalnine/gridbench/internal/result"
	"github.com/signalnine/gridbench/internal/runner"
	"github.com/signalnine/gridbench/internal/scaling"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep [ngrid]",
		Short: "Run the full scaling sweep and emit all artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ngrid := cfg.Sweep.NGrid
	if len(args) > 0 {
		ngrid, err = strconv.Atoi(args[0])
		if err != nil || ngrid < 1 {
			return fmt.Errorf("invalid grid size %q", args[0])
		}
	}

	if err := runner.EnsureBinaries(cfg.SerialBin(), cfg.ParallelBin()); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	probe := runner.DetectMemoryProbe()
	if probe.Available {
		log.Debug("memory measurement available", "helper", probe.Path, "flag", probe.Flag)
	} else {
		log.Warn("peak memory measurement unavailable; no external time helper found")
	}

	ctx := context.Background()

	fmt.Printf("Serial baseline (N=%d)...\n", ngrid)
	serial, err := collect(ctx, cfg, cfg.SerialBin(), ngrid, 1, probe)
	if err != nil {
		return err
	}
	base := aggregate.Reduce(1, deref(serial))

	rep := &result.ScalingReport{
		NGrid:          ngrid,
		T1WallS:        base.WallS,
		T1AppS:         base.AppS,
		HC1:            base.HC,
		HP1:            base.HP,
		SerialFraction: result.Undefined(),
	}

	sweep := []result.SampleSet{}
	for _, p := range cfg.Sweep.Threads {
		fmt.Printf("Parallel p=%d (N=%d)...\n", p, ngrid)
		samples, err := collect(ctx, cfg, cfg.ParallelBin(), ngrid, p, probe)
		if err != nil {
			return err
		}
		rep.Configs = append(rep.Configs, aggregate.Reduce(p, deref(samples)))
		set := result.SampleSet{Threads: p}
		for _, s := range samples {
			set.Samples = append(set.Samples, *s)
		}
		sweep = append(sweep, set)
	}

	if err := scaling.Apply(rep); err != nil {
		log.Warn("no serial-fraction estimate", "reason", err)
	}

	csvPath := filepath.Join(cfg.Output.Dir, "bench_results.csv")
	if err := result.WriteCSV(csvPath, rep); err != nil {
		return err
	}

	runLog := &result.RunLog{NGrid: ngrid, Sweep: sweep}
	for _, s := range serial {
		runLog.Serial = append(runLog.Serial, *s)
	}
	if err := result.WriteRunLog(filepath.Join(cfg.Output.Dir, "samples.json"), runLog); err != nil {
		log.Warn("could not write raw sample log", "error", err)
	}

	if err := report.Emit(rep, cfg.Output.Dir, report.Opts{Strikes: -1, MDim: -1}); err != nil {
		return err
	}

	fmt.Printf("\nWrote %s\n", csvPath)
	fmt.Printf("Saved artifacts in %s\n", cfg.Output.Dir)
	return nil
}

// deref converts a slice of sample pointers to a slice of values.
func deref(in []*result.Sample) []result.Sample {
	out := make([]result.Sample, 0, len(in))
	for _, s := range in {
		out = append(out, *s)
	}
	return out
}

// collect runs the configured number of repeats for one configuration,
// strictly one child process at a time.
func collect(ctx context.Context, cfg *config.Config, bin string, ngrid, threads int, probe runner.MemoryProbe) ([]*result.Sample, error) {
	samples := make([]*result.Sample, 0, cfg.Sweep.Repeats)
	for trial := 1; trial <= cfg.Sweep.Repeats; trial++ {
		fmt.Printf("  trial %d/%d...", trial, cfg.Sweep.Repeats)
		s, err := runner.RunWithRetry(ctx, &runner.Opts{
			Binary:  bin,
			NGrid:   ngrid,
			Threads: threads,
			WorkDir: cfg.Binaries.Dir,
			Timeout: cfg.TrialTimeout(),
			Probe:   probe,
		}, cfg.Sweep.Retries)
		if err != nil {
			return nil, err
		}
		if result.Defined(s.WallS) {
			fmt.Printf(" %.3fs (exit %d)\n", s.WallS, s.ExitCode)
		} else {
			fmt.Println(" timed out")
		}
		samples = append(samples, s)
	}
	return samples, nil
}
