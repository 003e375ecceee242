package aggregate_test

import (
	"math"
	"testing"

	"github.com/signalnine/gridbench/internal/aggregate"
	"github.com/signalnine/gridbench/internal/result"
)

func TestMedian(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		vals []float64
		want float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count averages middle pair", []float64{4, 1, 3, 2}, 2.5},
		{"single value", []float64{7}, 7},
		{"missing values excluded", []float64{nan, 5, nan, 1, 3}, 3},
		{"all missing", []float64{nan, nan}, nan},
		{"empty", nil, nan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregate.Median(tt.vals)
			if math.IsNaN(tt.want) {
				if result.Defined(got) {
					t.Fatalf("Median(%v) = %v, want undefined", tt.vals, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.vals, got, tt.want)
			}
		})
	}
}

func TestReduceFieldsIndependent(t *testing.T) {
	samples := []result.Sample{
		{WallS: 2.0, AppS: result.Undefined(), MaxRSSKB: 100, HC: 1.5, HP: result.Undefined()},
		{WallS: 4.0, AppS: 3.5, MaxRSSKB: result.Undefined(), HC: 1.7, HP: result.Undefined()},
		{WallS: 3.0, AppS: 2.5, MaxRSSKB: 200, HC: 1.6, HP: result.Undefined()},
	}
	cr := aggregate.Reduce(4, samples)

	if cr.Threads != 4 {
		t.Errorf("threads: got %d, want 4", cr.Threads)
	}
	if cr.WallS != 3.0 {
		t.Errorf("wall median: got %v, want 3.0", cr.WallS)
	}
	if cr.AppS != 3.0 {
		t.Errorf("app median over defined subset: got %v, want 3.0", cr.AppS)
	}
	if cr.MaxRSSKB != 150 {
		t.Errorf("rss median: got %v, want 150", cr.MaxRSSKB)
	}
	if cr.HC != 1.6 {
		t.Errorf("hc median: got %v, want 1.6", cr.HC)
	}
	if result.Defined(cr.HP) {
		t.Errorf("hp: got %v, want undefined when every trial is missing it", cr.HP)
	}
	if result.Defined(cr.Speedup) || result.Defined(cr.Efficiency) {
		t.Error("speedup/efficiency must stay undefined until the analyzer fills them")
	}
}

func TestReduceAllMissingNotZero(t *testing.T) {
	samples := []result.Sample{
		{WallS: 1, AppS: result.Undefined(), MaxRSSKB: result.Undefined(), HC: result.Undefined(), HP: result.Undefined()},
		{WallS: 2, AppS: result.Undefined(), MaxRSSKB: result.Undefined(), HC: result.Undefined(), HP: result.Undefined()},
	}
	cr := aggregate.Reduce(2, samples)
	for name, v := range map[string]float64{"app": cr.AppS, "rss": cr.MaxRSSKB, "hc": cr.HC, "hp": cr.HP} {
		if result.Defined(v) {
			t.Errorf("%s: got %v, want undefined (never zero)", name, v)
		}
	}
}
