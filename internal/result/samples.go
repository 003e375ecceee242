package result

import (
	"encoding/json"
	"fmt"
	"os"
)

// SampleSet groups the raw samples collected for one thread configuration.
type SampleSet struct {
	Threads int      `json:"threads"`
	Samples []Sample `json:"samples"`
}

// RunLog is the raw-trial dump written next to the results table for
// after-the-fact diagnosis of noisy or failed trials.
type RunLog struct {
	NGrid  int         `json:"ngrid"`
	Serial []Sample    `json:"serial"`
	Sweep  []SampleSet `json:"sweep"`
}

// sampleJSON mirrors Sample with undefined fields encoded as null; raw
// streams are kept so a bad trial can be diagnosed from the log alone.
type sampleJSON struct {
	WallS    *float64 `json:"wall_s"`
	AppS     *float64 `json:"app_s"`
	MaxRSSKB *float64 `json:"maxrss_kb"`
	HC       *float64 `json:"hc"`
	HP       *float64 `json:"hp"`
	ExitCode int      `json:"exit_code"`
	TimedOut bool     `json:"timed_out,omitempty"`
	Stdout   string   `json:"stdout,omitempty"`
	Stderr   string   `json:"stderr,omitempty"`
}

func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleJSON{
		WallS:    optional(s.WallS),
		AppS:     optional(s.AppS),
		MaxRSSKB: optional(s.MaxRSSKB),
		HC:       optional(s.HC),
		HP:       optional(s.HP),
		ExitCode: s.ExitCode,
		TimedOut: s.TimedOut,
		Stdout:   s.Stdout,
		Stderr:   s.Stderr,
	})
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var j sampleJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*s = Sample{
		WallS:    fromOptional(j.WallS),
		AppS:     fromOptional(j.AppS),
		MaxRSSKB: fromOptional(j.MaxRSSKB),
		HC:       fromOptional(j.HC),
		HP:       fromOptional(j.HP),
		ExitCode: j.ExitCode,
		TimedOut: j.TimedOut,
		Stdout:   j.Stdout,
		Stderr:   j.Stderr,
	}
	return nil
}

func optional(v float64) *float64 {
	if !Defined(v) {
		return nil
	}
	return &v
}

func fromOptional(p *float64) float64 {
	if p == nil {
		return Undefined()
	}
	return *p
}

func WriteRunLog(path string, rl *RunLog) error {
	data, err := json.MarshalIndent(rl, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run log: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadRunLog(path string) (*RunLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	var rl RunLog
	if err := json.Unmarshal(data, &rl); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return &rl, nil
}
