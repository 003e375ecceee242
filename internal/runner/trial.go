// Package runner executes single trials of the program under test with a
// controlled environment and captures everything the extractor needs.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/signalnine/gridbench/internal/extract"
	"github.com/signalnine/gridbench/internal/result"
)

type Opts struct {
	Binary  string
	NGrid   int
	Threads int // 0 leaves OMP_NUM_THREADS unset (serial binary)
	WorkDir string
	Timeout time.Duration
	Probe   MemoryProbe
}

// EnsureBinaries verifies every binary exists before the sweep starts. A
// missing binary is fatal up front: no partial sweep is attempted.
func EnsureBinaries(paths ...string) error {
	var missing []string
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("build the binaries first: `make` (looking for %s)", strings.Join(missing, " and "))
	}
	return nil
}

// Run executes one trial. The environment is rebuilt from scratch so no
// thread setting leaks between trials: auto-threading numeric libraries are
// pinned to one thread, placement hints are fixed to close/cores, and the
// requested OMP thread count is set. Wall time is measured with the
// monotonic clock bracketing the child. A non-zero exit code or a timeout is
// recorded on the Sample, not returned as an error; only a failure to start
// the process at all is an error.
func Run(ctx context.Context, opts *Opts) (*result.Sample, error) {
	bin, err := filepath.Abs(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("resolving binary path: %w", err)
	}

	argv := []string{bin, strconv.Itoa(opts.NGrid)}
	if opts.Probe.Available {
		argv = append([]string{opts.Probe.Path, opts.Probe.Flag}, argv...)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.WorkDir
	cmd.Env = TrialEnv(opts.Threads)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	wall := time.Since(start).Seconds()

	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr):
			exitCode = exitErr.ExitCode()
		case timedOut:
			exitCode = -1
		default:
			return nil, fmt.Errorf("running %s: %w", bin, runErr)
		}
	}
	if exitCode != 0 {
		log.Warn("trial exited abnormally", "binary", filepath.Base(bin), "exit", exitCode, "timed_out", timedOut)
	}

	metrics := extract.Parse(stdout.String(), stderr.String())
	sample := &result.Sample{
		WallS:    wall,
		AppS:     metrics.AppS,
		MaxRSSKB: metrics.MaxRSSKB,
		HC:       metrics.HC,
		HP:       metrics.HP,
		ExitCode: exitCode,
		TimedOut: timedOut,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if timedOut {
		sample.WallS = result.Undefined()
	}
	return sample, nil
}

// RunWithRetry re-runs a timed-out trial up to retries extra attempts. The
// last sample is returned either way; a timed-out sample carries undefined
// metrics and the sweep continues around it.
func RunWithRetry(ctx context.Context, opts *Opts, retries int) (*result.Sample, error) {
	for attempt := 0; ; attempt++ {
		s, err := Run(ctx, opts)
		if err != nil {
			return nil, err
		}
		if !s.TimedOut || attempt >= retries {
			return s, nil
		}
		log.Warn("trial timed out, retrying", "binary", filepath.Base(opts.Binary), "attempt", attempt+1, "retries", retries)
	}
}

// TrialEnv builds a fresh child environment per invocation. VECLIB pinning
// keeps background numeric libraries from stealing threads; proc-bind and
// places fix placement for reproducibility.
func TrialEnv(threads int) []string {
	env := append([]string(nil), os.Environ()...)
	env = append(env,
		"VECLIB_MAXIMUM_THREADS=1",
		"OMP_PROC_BIND=close",
		"OMP_PLACES=cores",
	)
	if threads > 0 {
		env = append(env, fmt.Sprintf("OMP_NUM_THREADS=%d", threads))
	}
	return env
}
