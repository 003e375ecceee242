package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalnine/gridbench/internal/heatmap"
)

func newHeatmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heatmap [matrix-csv]",
		Short: "Render the objective-surface heatmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			matrix := cfg.Heatmap.Matrix
			if len(args) > 0 {
				matrix = args[0]
			}
			out := filepath.Join(cfg.Output.Dir, "plots_heatmap.png")
			if err := heatmap.Render(matrix, out); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", out)
			return nil
		},
	}
}
