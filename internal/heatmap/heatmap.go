// Package heatmap renders the optimizer's 2-D objective surface with its
// minimum marked. It shares the output directory with the scaling artifacts
// but is otherwise independent of the measurement pipeline.
package heatmap

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Matrix is a dense row-major numeric surface. Cells may be NaN; they are
// ignored when locating the minimum.
type Matrix struct {
	Rows, Cols int
	Data       [][]float64
}

// Load reads a comma-separated numeric matrix. Every row must have the same
// width; an empty file is an error.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix %s: %w", path, err)
	}
	defer f.Close()

	var data [][]float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad value %q: %w", path, len(data)+1, field, err)
			}
			row[i] = v
		}
		if len(data) > 0 && len(row) != len(data[0]) {
			return nil, fmt.Errorf("%s: ragged matrix, row %d has %d columns, want %d",
				path, len(data)+1, len(row), len(data[0]))
		}
		data = append(data, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty matrix", path)
	}
	return &Matrix{Rows: len(data), Cols: len(data[0]), Data: data}, nil
}

// ArgMin returns the (row, col) of the smallest defined value.
func (m *Matrix) ArgMin() (row, col int, ok bool) {
	best := math.Inf(1)
	for r, line := range m.Data {
		for c, v := range line {
			if math.IsNaN(v) || v >= best {
				continue
			}
			best, row, col = v, r, c
			ok = true
		}
	}
	return row, col, ok
}

// Render draws the surface to outPath with a marker on its minimum.
func Render(matrixPath, outPath string) error {
	m, err := Load(matrixPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Objective Surface over (hc, hp)"
	p.X.Label.Text = "hp index"
	p.Y.Label.Text = "hc index"

	hm := plotter.NewHeatMap(grid{m}, moreland.SmoothBlueRed().Palette(255))
	hm.Min, hm.Max = m.definedRange()
	p.Add(hm)

	if r, c, ok := m.ArgMin(); ok {
		marker, err := plotter.NewScatter(plotter.XYs{{X: float64(c), Y: float64(r)}})
		if err != nil {
			return fmt.Errorf("building minimum marker: %w", err)
		}
		marker.GlyphStyle.Shape = draw.CrossGlyph{}
		marker.GlyphStyle.Radius = vg.Points(4)
		marker.GlyphStyle.Color = color.Black
		p.Add(marker)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("saving heatmap: %w", err)
	}
	return nil
}

func (m *Matrix) definedRange() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, line := range m.Data {
		for _, v := range line {
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	return min, max
}

// grid adapts Matrix to plotter.GridXYZ with unit cell coordinates and
// row 0 at the bottom.
type grid struct {
	m *Matrix
}

func (g grid) Dims() (c, r int)   { return g.m.Cols, g.m.Rows }
func (g grid) Z(c, r int) float64 { return g.m.Data[r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }
