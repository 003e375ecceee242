package extract_test

import (
	"testing"

	"github.com/signalnine/gridbench/internal/extract"
	"github.com/signalnine/gridbench/internal/result"
)

func TestParseLegacyMarkers(t *testing.T) {
	stdout := "starting up\n[bandwidth_grid_total] 3.214 s\nhc: 1.5234\n"
	stderr := "hp: 0.8891\n"
	m := extract.Parse(stdout, stderr)

	if m.AppS != 3.214 {
		t.Errorf("app time: got %v, want 3.214", m.AppS)
	}
	if m.HC != 1.5234 {
		t.Errorf("hc: got %v, want 1.5234", m.HC)
	}
	if m.HP != 0.8891 {
		t.Errorf("hp: got %v, want 0.8891", m.HP)
	}
	if result.Defined(m.MaxRSSKB) {
		t.Errorf("rss: got %v, want undefined", m.MaxRSSKB)
	}
}

func TestParseMarkersInEitherStream(t *testing.T) {
	// Same markers, opposite streams, different order.
	m := extract.Parse("hp: 2.0\n", "hc: 1.0\n[bandwidth_grid_total] 0.5 s\n")
	if m.AppS != 0.5 || m.HC != 1.0 || m.HP != 2.0 {
		t.Errorf("got %+v, markers must be stream- and order-independent", m)
	}
}

func TestParseAbsentMarkers(t *testing.T) {
	m := extract.Parse("no markers here\n", "")
	for name, v := range map[string]float64{"app": m.AppS, "hc": m.HC, "hp": m.HP, "rss": m.MaxRSSKB} {
		if result.Defined(v) {
			t.Errorf("%s: got %v, want undefined", name, v)
		}
	}
}

func TestParseFirstMatchWins(t *testing.T) {
	m := extract.Parse("[bandwidth_grid_total] 1.0 s\n[bandwidth_grid_total] 2.0 s\n", "")
	if m.AppS != 1.0 {
		t.Errorf("got %v, want first match 1.0", m.AppS)
	}
}

func TestParseStructuredContractWins(t *testing.T) {
	stdout := "metric.elapsed_s=2.5\nmetric.hc=1.1\n[bandwidth_grid_total] 9.9 s\nhc: 9.9\nhp: 0.7\n"
	m := extract.Parse(stdout, "")
	if m.AppS != 2.5 {
		t.Errorf("app time: got %v, structured contract must take precedence", m.AppS)
	}
	if m.HC != 1.1 {
		t.Errorf("hc: got %v, structured contract must take precedence", m.HC)
	}
	if m.HP != 0.7 {
		t.Errorf("hp: got %v, legacy fallback must still apply per field", m.HP)
	}
}

func TestParseMaxRSS(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   float64
	}{
		{
			"gnu time",
			"\tMaximum resident set size (kbytes): 123456\n",
			123456,
		},
		{
			"bsd time",
			"      123456789  maximum resident set size\n",
			123456789,
		},
		{
			"last integer on the line",
			"Maximum resident set size (kbytes): ignored 42 99\n",
			99,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := extract.Parse("", tt.stderr)
			if m.MaxRSSKB != tt.want {
				t.Errorf("rss: got %v, want %v", m.MaxRSSKB, tt.want)
			}
		})
	}
}
