package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalnine/gridbench/internal/config"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridbench",
		Short: "Strong-scaling benchmark harness for the bandwidth-grid solver",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "gridbench.yaml", "config file path")
	root.AddCommand(newSweepCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newHeatmapCmd())
	root.AddCommand(newListCmd())
	return root
}

// loadConfig falls back to the built-in defaults when the default config
// file simply doesn't exist; an explicitly broken file is still an error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
