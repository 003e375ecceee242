package result_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/gridbench/internal/result"
)

func sampleReport() *result.ScalingReport {
	return &result.ScalingReport{
		NGrid:   48,
		T1WallS: 10.123456789,
		T1AppS:  9.87,
		HC1:     1.52,
		HP1:     result.Undefined(),
		Configs: []result.ConfigResult{
			{Threads: 1, WallS: 10.123456789, AppS: 9.87, MaxRSSKB: 2048, HC: 1.52, HP: result.Undefined(), Speedup: 1, Efficiency: 1},
			{Threads: 2, WallS: 5.2, AppS: 5.0, MaxRSSKB: result.Undefined(), HC: 1.52, HP: result.Undefined(), Speedup: 1.946818613269, Efficiency: 0.9734093066345},
			{Threads: 4, WallS: 2.9, AppS: result.Undefined(), MaxRSSKB: 2112, HC: result.Undefined(), HP: result.Undefined(), Speedup: result.Undefined(), Efficiency: result.Undefined()},
		},
		SerialFraction: result.Undefined(),
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench_results.csv")
	rep := sampleReport()
	if err := result.WriteCSV(path, rep); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := result.LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	if got.NGrid != rep.NGrid {
		t.Errorf("NGrid: got %d, want %d", got.NGrid, rep.NGrid)
	}
	if got.T1WallS != rep.T1WallS {
		t.Errorf("T1WallS: got %v, want %v", got.T1WallS, rep.T1WallS)
	}
	if got.T1AppS != rep.T1AppS {
		t.Errorf("T1AppS: got %v, want %v", got.T1AppS, rep.T1AppS)
	}
	if got.HC1 != rep.HC1 {
		t.Errorf("HC1: got %v, want %v", got.HC1, rep.HC1)
	}
	if result.Defined(got.HP1) {
		t.Errorf("HP1: got %v, want undefined", got.HP1)
	}
	if len(got.Configs) != len(rep.Configs) {
		t.Fatalf("configs: got %d rows, want %d", len(got.Configs), len(rep.Configs))
	}
	for i, want := range rep.Configs {
		g := got.Configs[i]
		if g.Threads != want.Threads {
			t.Errorf("row %d threads: got %d, want %d", i, g.Threads, want.Threads)
		}
		checkField(t, i, "wall", g.WallS, want.WallS)
		checkField(t, i, "app", g.AppS, want.AppS)
		checkField(t, i, "rss", g.MaxRSSKB, want.MaxRSSKB)
		checkField(t, i, "hc", g.HC, want.HC)
		checkField(t, i, "hp", g.HP, want.HP)
		checkField(t, i, "speedup", g.Speedup, want.Speedup)
		checkField(t, i, "efficiency", g.Efficiency, want.Efficiency)
	}
}

func checkField(t *testing.T, row int, name string, got, want float64) {
	t.Helper()
	if !result.Defined(want) {
		if result.Defined(got) {
			t.Errorf("row %d %s: got %v, want undefined", row, name, got)
		}
		return
	}
	if got != want {
		t.Errorf("row %d %s: got %v, want %v (bit-exact)", row, name, got, want)
	}
}

func TestWriteCSVSortsByThreads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench_results.csv")
	rep := sampleReport()
	rep.Configs[0], rep.Configs[2] = rep.Configs[2], rep.Configs[0]
	if err := result.WriteCSV(path, rep); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := result.LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	for i := 1; i < len(got.Configs); i++ {
		if got.Configs[i-1].Threads >= got.Configs[i].Threads {
			t.Fatalf("rows not in ascending thread order: %d before %d",
				got.Configs[i-1].Threads, got.Configs[i].Threads)
		}
	}
}

func TestLoadCSVEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	header := "NGRID,T1_wall_s,T1_app_s,hc1,hp1,threads,Tp_wall_s,Tp_app_s,speedup,efficiency,maxrss_kb,hc_med,hp_med\n"
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := result.LoadCSV(path)
	if err == nil {
		t.Fatal("expected error for table with zero rows")
	}
	if !strings.Contains(err.Error(), "no rows") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadCSVMissing(t *testing.T) {
	if _, err := result.LoadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
