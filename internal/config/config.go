package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is one sweep's full configuration. It is loaded once and passed
// down explicitly; nothing in the harness reads ambient sweep state, so two
// sweeps with different configs can coexist in one process.
type Config struct {
	Binaries Binaries `yaml:"binaries"`
	Sweep    Sweep    `yaml:"sweep"`
	Output   Output   `yaml:"output"`
	Heatmap  Heatmap  `yaml:"heatmap"`
}

type Binaries struct {
	Dir      string `yaml:"dir"`
	Serial   string `yaml:"serial"`
	Parallel string `yaml:"parallel"`
}

type Sweep struct {
	Threads        []int `yaml:"threads"`
	Repeats        int   `yaml:"repeats"`
	NGrid          int   `yaml:"ngrid"`
	TimeoutSeconds int   `yaml:"timeout_seconds"`
	Retries        int   `yaml:"retries"`
}

type Output struct {
	Dir string `yaml:"dir"`
}

type Heatmap struct {
	Matrix string `yaml:"matrix"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Binaries: Binaries{Dir: "vix", Serial: "vix_seq", Parallel: "vix_omp"},
		Sweep: Sweep{
			Threads:        []int{1, 2, 4, 6, 8},
			Repeats:        3,
			NGrid:          48,
			TimeoutSeconds: 600,
		},
		Output:  Output{Dir: "plots"},
		Heatmap: Heatmap{Matrix: filepath.Join("vix", "matcv.csv")},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Binaries.Serial == "" || cfg.Binaries.Parallel == "" {
		return fmt.Errorf("both serial and parallel binaries are required")
	}
	if len(cfg.Sweep.Threads) == 0 {
		return fmt.Errorf("no thread counts defined")
	}
	for _, p := range cfg.Sweep.Threads {
		if p < 1 {
			return fmt.Errorf("thread count must be at least 1, got %d", p)
		}
	}
	if cfg.Sweep.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1")
	}
	if cfg.Sweep.NGrid < 1 {
		return fmt.Errorf("ngrid must be at least 1")
	}
	if cfg.Sweep.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if cfg.Sweep.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output dir is required")
	}
	return nil
}

func (c *Config) SerialBin() string {
	return filepath.Join(c.Binaries.Dir, c.Binaries.Serial)
}

func (c *Config) ParallelBin() string {
	return filepath.Join(c.Binaries.Dir, c.Binaries.Parallel)
}

func (c *Config) TrialTimeout() time.Duration {
	return time.Duration(c.Sweep.TimeoutSeconds) * time.Second
}
