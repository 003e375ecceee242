package heatmap_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/gridbench/internal/heatmap"
)

func writeMatrix(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matcv.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndArgMin(t *testing.T) {
	path := writeMatrix(t, "3.0,2.0,5.0\n1.5,0.25,4.0\n6.0,7.0,8.0\n")
	m, err := heatmap.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Rows != 3 || m.Cols != 3 {
		t.Fatalf("dims: got %dx%d, want 3x3", m.Rows, m.Cols)
	}
	r, c, ok := m.ArgMin()
	if !ok {
		t.Fatal("expected a defined minimum")
	}
	if r != 1 || c != 1 {
		t.Errorf("argmin: got (%d,%d), want (1,1)", r, c)
	}
}

func TestArgMinIgnoresNaN(t *testing.T) {
	path := writeMatrix(t, "nan,2.0\n3.0,nan\n")
	m, err := heatmap.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, c, ok := m.ArgMin()
	if !ok || r != 0 || c != 1 {
		t.Errorf("argmin: got (%d,%d,%v), want (0,1,true)", r, c, ok)
	}
}

func TestLoadRaggedMatrix(t *testing.T) {
	path := writeMatrix(t, "1.0,2.0\n3.0\n")
	_, err := heatmap.Load(path)
	if err == nil {
		t.Fatal("expected error for ragged matrix")
	}
	if !strings.Contains(err.Error(), "ragged") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadEmptyMatrix(t *testing.T) {
	path := writeMatrix(t, "\n")
	if _, err := heatmap.Load(path); err == nil {
		t.Fatal("expected error for empty matrix")
	}
}

func TestRender(t *testing.T) {
	path := writeMatrix(t, "3.0,2.0\n1.0,4.0\n")
	out := filepath.Join(t.TempDir(), "plots", "plots_heatmap.png")
	if err := heatmap.Render(path, out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output image: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output image is empty")
	}
}
