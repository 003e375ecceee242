package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/signalnine/gridbench/internal/report"
	"github.com/signalnine/gridbench/internal/result"
	"github.com/signalnine/gridbench/internal/scaling"
)

var (
	flagStrikes int
	flagMDim    int
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <results-csv>",
		Short: "Re-derive artifacts from a persisted results table",
		Long: "Reload a previously written bench_results.csv, re-run the scaling analysis, " +
			"and regenerate every artifact without touching the binaries under test.",
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().IntVar(&flagStrikes, "strikes", -1, "strike count for the throughput curve")
	cmd.Flags().IntVar(&flagMDim, "mdim", -1, "secondary grid dimension for the throughput curve")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep, err := result.LoadCSV(args[0])
	if err != nil {
		return err
	}

	// Recomputing from the persisted medians yields the same numbers the
	// sweep path produced; the table's derived columns are only a
	// convenience for external tooling.
	if err := scaling.Apply(rep); err != nil {
		log.Warn("no serial-fraction estimate", "reason", err)
	}

	if err := report.Emit(rep, cfg.Output.Dir, report.Opts{Strikes: flagStrikes, MDim: flagMDim}); err != nil {
		return err
	}
	fmt.Printf("Saved artifacts in %s\n", cfg.Output.Dir)
	return nil
}
