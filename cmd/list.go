package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalnine/gridbench/internal/runner"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the effective sweep plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			counts := make([]string, len(cfg.Sweep.Threads))
			for i, p := range cfg.Sweep.Threads {
				counts[i] = fmt.Sprintf("%d", p)
			}
			fmt.Println("Binaries:")
			fmt.Printf("  serial:   %s\n", cfg.SerialBin())
			fmt.Printf("  parallel: %s\n", cfg.ParallelBin())
			fmt.Println("\nSweep:")
			fmt.Printf("  grid size: %d\n", cfg.Sweep.NGrid)
			fmt.Printf("  threads:   [%s]\n", strings.Join(counts, ", "))
			fmt.Printf("  repeats:   %d\n", cfg.Sweep.Repeats)
			fmt.Printf("  timeout:   %s (retries: %d)\n", cfg.TrialTimeout(), cfg.Sweep.Retries)
			fmt.Printf("\nOutput dir: %s\n", cfg.Output.Dir)
			probe := runner.DetectMemoryProbe()
			if probe.Available {
				fmt.Printf("Memory measurement: yes, using %s %s\n", probe.Path, probe.Flag)
			} else {
				fmt.Println("Memory measurement: no")
			}
			return nil
		},
	}
}
