// Package extract pulls timing, memory, and correctness metrics out of the
// free-form output of the program under test. The structured
// metric.<name>=<value> contract is preferred; the legacy free-form markers
// remain as a fallback so old binaries keep working.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/signalnine/gridbench/internal/result"
)

// Metrics holds everything the extractor could find. Absent markers are
// Undefined, never an error: the program is free to print any subset.
type Metrics struct {
	AppS     float64
	HC       float64
	HP       float64
	MaxRSSKB float64
}

var (
	structuredRE = regexp.MustCompile(`^\s*metric\.(elapsed_s|hc|hp)=([0-9.eE+-]+)\s*$`)

	appTimeRE = regexp.MustCompile(`\[bandwidth_grid_total\]\s+([\d.]+)\s*s`)
	hcRE      = regexp.MustCompile(`hc:\s*([0-9.]+)`)
	hpRE      = regexp.MustCompile(`hp:\s*([0-9.]+)`)

	intTokenRE = regexp.MustCompile(`\d+`)
)

// Parse scans both streams for the three optional markers and the peak-memory
// report line. Markers may appear in either stream in any order; the first
// match wins for each field independently.
func Parse(stdout, stderr string) Metrics {
	m := Metrics{
		AppS:     result.Undefined(),
		HC:       result.Undefined(),
		HP:       result.Undefined(),
		MaxRSSKB: result.Undefined(),
	}
	combined := stdout + "\n" + stderr

	for _, line := range strings.Split(combined, "\n") {
		kv := structuredRE.FindStringSubmatch(line)
		if kv == nil {
			continue
		}
		v, err := strconv.ParseFloat(kv[2], 64)
		if err != nil {
			continue
		}
		switch kv[1] {
		case "elapsed_s":
			if !result.Defined(m.AppS) {
				m.AppS = v
			}
		case "hc":
			if !result.Defined(m.HC) {
				m.HC = v
			}
		case "hp":
			if !result.Defined(m.HP) {
				m.HP = v
			}
		}
	}

	if !result.Defined(m.AppS) {
		m.AppS = firstFloat(appTimeRE, combined)
	}
	if !result.Defined(m.HC) {
		m.HC = firstFloat(hcRE, combined)
	}
	if !result.Defined(m.HP) {
		m.HP = firstFloat(hpRE, combined)
	}
	m.MaxRSSKB = parseMaxRSS(combined)
	return m
}

func firstFloat(re *regexp.Regexp, text string) float64 {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return result.Undefined()
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return result.Undefined()
	}
	return v
}

// parseMaxRSS finds the /usr/bin/time peak-memory report. Both the BSD and
// GNU phrasings contain "maximum resident set size"; the value is the last
// integer token on the first matching line, in kilobytes.
func parseMaxRSS(text string) float64 {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "maximum resident set size") {
			continue
		}
		toks := intTokenRE.FindAllString(line, -1)
		if len(toks) == 0 {
			return result.Undefined()
		}
		v, err := strconv.ParseFloat(toks[len(toks)-1], 64)
		if err != nil {
			return result.Undefined()
		}
		return v
	}
	return result.Undefined()
}
