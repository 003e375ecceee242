package runner

import (
	"os"
	"os/exec"
	"runtime"
)

// MemoryProbe is the once-per-startup decision about peak-memory measurement:
// whether an external time helper is available and which flag it takes on
// this OS family. Every trial consumes the same decision.
type MemoryProbe struct {
	Available bool
	Path      string
	Flag      string
}

// DetectMemoryProbe locates /usr/bin/time (or an external time on PATH) and
// picks the verbose-RSS flag: -l on Darwin, -v elsewhere. When no helper
// exists, memory measurement is skipped for the whole run without failing
// any trial.
func DetectMemoryProbe() MemoryProbe {
	flag := "-v"
	if runtime.GOOS == "darwin" {
		flag = "-l"
	}
	if info, err := os.Stat("/usr/bin/time"); err == nil && !info.IsDir() {
		return MemoryProbe{Available: true, Path: "/usr/bin/time", Flag: flag}
	}
	// Shell builtins don't count; only an external binary can report RSS.
	if path, err := exec.LookPath("time"); err == nil {
		return MemoryProbe{Available: true, Path: path, Flag: flag}
	}
	return MemoryProbe{}
}
